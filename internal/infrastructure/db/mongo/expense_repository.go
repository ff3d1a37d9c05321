package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/code-sharad/expense-tracker/internal/core/domain"
	"github.com/code-sharad/expense-tracker/internal/core/ports"
)

const collectionExpenses = "expenses"

type ExpenseRepository struct {
	col *mongo.Collection
}

func NewExpenseRepository(db *mongo.Database) *ExpenseRepository {
	return &ExpenseRepository{col: db.Collection(collectionExpenses)}
}

type mongoExpense struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty"`
	UserID      primitive.ObjectID  `bson:"userId"`
	Amount      float64             `bson:"amount"`
	Description string              `bson:"description"`
	Date        time.Time           `bson:"date"`
	ManagerID   *primitive.ObjectID `bson:"managerId,omitempty"`
	ResolvedBy  *primitive.ObjectID `bson:"ResolvedBy,omitempty"`
	Status      string              `bson:"status"`
	CreatedAt   time.Time           `bson:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt"`
}

func (me *mongoExpense) toDomain() *domain.Expense {
	return &domain.Expense{
		ID:          me.ID.Hex(),
		UserID:      me.UserID.Hex(),
		Amount:      me.Amount,
		Description: me.Description,
		Date:        me.Date.UTC(),
		ManagerID:   hexOrEmpty(me.ManagerID),
		ResolvedBy:  hexOrEmpty(me.ResolvedBy),
		Status:      domain.ExpenseStatus(me.Status),
		CreatedAt:   me.CreatedAt.UTC(),
		UpdatedAt:   me.UpdatedAt.UTC(),
	}
}

// Create inserts a new expense document and returns it with its id.
func (r *ExpenseRepository) Create(ctx context.Context, e *domain.Expense) (*domain.Expense, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	userID, ok := objectID(e.UserID)
	if !ok {
		return nil, fmt.Errorf("%w: submitter id %q", domain.ErrInvalidInput, e.UserID)
	}

	now := time.Now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = e.CreatedAt
	}
	status := e.Status
	if status == "" {
		status = domain.StatusPending
	}

	doc := mongoExpense{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		Amount:      e.Amount,
		Description: e.Description,
		Date:        e.Date.UTC().Truncate(time.Millisecond),
		ManagerID:   optionalID(e.ManagerID),
		ResolvedBy:  optionalID(e.ResolvedBy),
		Status:      string(status),
		CreatedAt:   e.CreatedAt.UTC().Truncate(time.Millisecond),
		UpdatedAt:   e.UpdatedAt.UTC().Truncate(time.Millisecond),
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert expense: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ExpenseRepository) FindByID(ctx context.Context, id string) (*domain.Expense, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrExpenseNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var me mongoExpense
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&me); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("find expense: %w", err)
	}
	return me.toDomain(), nil
}

// List returns the expenses selected by filter, newest first.
func (r *ExpenseRepository) List(ctx context.Context, filter domain.ExpenseFilter) ([]*domain.Expense, error) {
	q := bson.M{}
	if filter.UserID != "" {
		oid, ok := objectID(filter.UserID)
		if !ok {
			return nil, nil
		}
		q["userId"] = oid
	}
	if filter.ManagerID != "" {
		oid, ok := objectID(filter.ManagerID)
		if !ok {
			return nil, nil
		}
		q["managerId"] = oid
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("find expenses: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoExpense
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode expenses: %w", err)
	}

	out := make([]*domain.Expense, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// Resolve moves a pending expense to in.Status in a single conditional
// update. When nothing matches it looks the expense up again to tell a
// missing expense from one that is no longer pending.
func (r *ExpenseRepository) Resolve(ctx context.Context, in ports.ResolveInput) (*domain.Expense, error) {
	oid, ok := objectID(in.ExpenseID)
	if !ok {
		return nil, domain.ErrExpenseNotFound
	}
	at := in.At
	if at.IsZero() {
		at = time.Now()
	}

	set := bson.M{
		"status":    string(in.Status),
		"updatedAt": at.UTC().Truncate(time.Millisecond),
	}
	if resolver := optionalID(in.ResolvedBy); resolver != nil {
		set["ResolvedBy"] = *resolver
	}

	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var me mongoExpense
	err := r.col.FindOneAndUpdate(opCtx,
		bson.M{"_id": oid, "status": string(domain.StatusPending)},
		bson.M{"$set": set},
		opts,
	).Decode(&me)
	if err == nil {
		return me.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("resolve expense: %w", err)
	}

	current, err := r.FindByID(ctx, in.ExpenseID)
	if err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: status is %s", domain.ErrAlreadyResolved, current.Status)
}

// EnsureIndexes creates the indexes backing the scoped listings.
func (r *ExpenseRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "managerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
