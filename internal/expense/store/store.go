package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MrJamesThe3rd/expensetracker/internal/expense"
)

type Store struct {
	coll *mongo.Collection
	now  func() time.Time
}

func New(coll *mongo.Collection) *Store {
	return &Store{coll: coll, now: time.Now}
}

// document is the stored shape of an expense. Field names match what the
// collection already holds: {description, amount, category, date, created_at}.
type document struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Description string             `bson:"description"`
	Amount      float64            `bson:"amount"`
	Category    string             `bson:"category"`
	Date        string             `bson:"date"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (d document) toExpense() *expense.Expense {
	return &expense.Expense{
		ID:          d.ID.Hex(),
		Description: d.Description,
		Amount:      decimal.NewFromFloat(d.Amount),
		Category:    expense.Category(d.Category),
		Date:        d.Date,
		CreatedAt:   d.CreatedAt,
	}
}

// EnsureIndexes creates the ascending date index used by every listing.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "date", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("creating date index: %w", err)
	}

	return nil
}

func (s *Store) Insert(ctx context.Context, e *expense.Expense) error {
	doc := document{
		Description: e.Description,
		Amount:      e.Amount.InexactFloat64(),
		Category:    string(e.Category),
		Date:        e.Date,
		CreatedAt:   s.now().UTC().Truncate(time.Millisecond),
	}

	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("inserting expense: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("inserting expense: unexpected id type %T", res.InsertedID)
	}

	e.ID = oid.Hex()
	e.CreatedAt = doc.CreatedAt

	return nil
}

// dateFilter builds {date: {$gte: from, $lte: to}} with omitted bounds left out.
func dateFilter(filter expense.ListFilter) bson.M {
	rng := bson.M{}
	if filter.From != "" {
		rng["$gte"] = filter.From
	}

	if filter.To != "" {
		rng["$lte"] = filter.To
	}

	if len(rng) == 0 {
		return bson.M{}
	}

	return bson.M{"date": rng}
}

func (s *Store) List(ctx context.Context, filter expense.ListFilter) ([]*expense.Expense, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cur, err := s.coll.Find(ctx, dateFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer cur.Close(ctx)

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding expenses: %w", err)
	}

	out := make([]*expense.Expense, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toExpense())
	}

	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (*expense.Expense, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, expense.ErrInvalidID
	}

	var doc document
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, expense.ErrNotFound
		}

		return nil, fmt.Errorf("getting expense: %w", err)
	}

	return doc.toExpense(), nil
}

func (s *Store) Update(ctx context.Context, id string, in expense.Input) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return expense.ErrInvalidID
	}

	update := bson.M{"$set": bson.M{
		"description": in.Description,
		"amount":      in.Amount.InexactFloat64(),
		"category":    string(in.Category),
		"date":        in.Date,
	}}

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("updating expense: %w", err)
	}

	if res.MatchedCount == 0 {
		return expense.ErrNotFound
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return expense.ErrInvalidID
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}

	if res.DeletedCount == 0 {
		return expense.ErrNotFound
	}

	return nil
}

func (s *Store) ParseID(id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return expense.ErrInvalidID
	}

	return nil
}
