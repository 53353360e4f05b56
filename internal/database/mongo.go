package database

import (
	"context"
	"errors"
	"fmt"
	"time"
	"tutorbot/entity"
	"tutorbot/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionUsers           = "users"
	collectionPayments        = "payments"
	collectionWithdrawals     = "withdrawals"
	collectionConfig          = "bot_config"
	collectionReferralCredits = "referral_credits"
)

type MongoDB struct {
	ctx           context.Context
	clientOptions *options.ClientOptions
	database      string
}

func NewMongoClient(conf *config.Config) *MongoDB {
	if !conf.Mongo.Enabled {
		return nil
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	client := &MongoDB{
		ctx:           context.Background(),
		clientOptions: clientOptions,
		database:      conf.Mongo.Database,
	}
	return client
}

func (m *MongoDB) connect() (*mongo.Client, error) {
	connection, err := mongo.Connect(m.ctx, m.clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	return connection, nil
}

func (m *MongoDB) disconnect(connection *mongo.Client) {
	_ = connection.Disconnect(m.ctx)
}

// EnsureIndexes builds the unique (referrer, referee) marker index that
// guards exactly-once referral credit, and the leaderboard sort index.
func (m *MongoDB) EnsureIndexes() error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	db := connection.Database(m.database)
	_, err = db.Collection(collectionReferralCredits).Indexes().CreateOne(m.ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "referrer_id", Value: 1}, {Key: "referee_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("referral credit index: %w", err)
	}
	_, err = db.Collection(collectionUsers).Indexes().CreateOne(m.ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "referral_count", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("referral count index: %w", err)
	}
	return nil
}

// --- Users ---

func (m *MongoDB) GetUser(id int64) (*entity.User, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionUsers)
	var user entity.User
	err = collection.FindOne(m.ctx, bson.D{{Key: "telegram_id", Value: id}}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb find user: %w", err)
	}
	return &user, nil
}

// Referral counters change only through field-level increments; SaveUser
// never writes them, so a read-modify-write of the rest of the record
// cannot clobber a credit landing in between.
var counterFields = []string{"referral_count", "rewards", "total_rewards"}

// userDocument flattens the user struct into a $set document with the
// counter fields stripped.
func userDocument(user *entity.User) (bson.M, error) {
	raw, err := bson.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("marshal user: %w", err)
	}
	var doc bson.M
	if err = bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal user document: %w", err)
	}
	for _, field := range counterFields {
		delete(doc, field)
	}
	return doc, nil
}

// SaveUser merge-writes the user record: fields present in the struct are
// set, fields marked omitempty and unset are left untouched, counters are
// skipped entirely.
func (m *MongoDB) SaveUser(user *entity.User) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	doc, err := userDocument(user)
	if err != nil {
		return err
	}
	collection := connection.Database(m.database).Collection(collectionUsers)
	filter := bson.D{{Key: "telegram_id", Value: user.TelegramId}}
	update := bson.D{{Key: "$set", Value: doc}}
	opts := options.Update().SetUpsert(true)
	_, err = collection.UpdateOne(m.ctx, filter, update, opts)
	return err
}

func (m *MongoDB) DeleteUser(id int64) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionUsers)
	_, err = collection.DeleteOne(m.ctx, bson.D{{Key: "telegram_id", Value: id}})
	return err
}

func (m *MongoDB) findUsers(filter interface{}, opts ...*options.FindOptions) ([]*entity.User, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionUsers)
	cursor, err := collection.Find(m.ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("mongodb find users: %w", err)
	}
	defer cursor.Close(m.ctx)

	var users []*entity.User
	if err = cursor.All(m.ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (m *MongoDB) AllUsers() ([]*entity.User, error) {
	return m.findUsers(bson.D{})
}

func (m *MongoDB) VerifiedUsers() ([]*entity.User, error) {
	return m.findUsers(bson.D{{Key: "is_verified", Value: true}})
}

func (m *MongoDB) UsersByDateRange(from, to time.Time) ([]*entity.User, error) {
	return m.findUsers(bson.D{{Key: "joined_at", Value: bson.D{{Key: "$gte", Value: from}, {Key: "$lte", Value: to}}}})
}

func (m *MongoDB) UserReferrals(referrerId string) ([]*entity.User, error) {
	return m.findUsers(bson.D{{Key: "referrer_id", Value: referrerId}})
}

func (m *MongoDB) TopReferrers(limit int64) ([]*entity.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "referral_count", Value: -1}}).
		SetLimit(limit)
	return m.findUsers(bson.D{{Key: "referral_count", Value: bson.D{{Key: "$gt", Value: 0}}}}, opts)
}

// CreditReferral records a referral reward exactly once. The marker insert
// hits the unique (referrer_id, referee_id) index; only a first insert is
// followed by the field-level counter increment, so a duplicate delivery of
// the same start event cannot double-credit.
func (m *MongoDB) CreditReferral(referrerId, refereeId int64, reward int64) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	db := connection.Database(m.database)
	_, err = db.Collection(collectionReferralCredits).InsertOne(m.ctx, &entity.ReferralCredit{
		ReferrerId: referrerId,
		RefereeId:  refereeId,
		Reward:     reward,
		CreatedAt:  time.Now(),
	})
	if mongo.IsDuplicateKeyError(err) {
		return entity.ErrAlreadyCredited
	}
	if err != nil {
		return fmt.Errorf("mongodb insert referral credit: %w", err)
	}

	filter := bson.D{{Key: "telegram_id", Value: referrerId}}
	update := bson.D{{Key: "$inc", Value: bson.D{
		{Key: "referral_count", Value: 1},
		{Key: "rewards", Value: reward},
		{Key: "total_rewards", Value: reward},
	}}}
	_, err = db.Collection(collectionUsers).UpdateOne(m.ctx, filter, update)
	return err
}

func (m *MongoDB) SetReferrer(userId int64, referrerId string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionUsers)
	filter := bson.D{{Key: "telegram_id", Value: userId}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "referrer_id", Value: referrerId}}}}
	_, err = collection.UpdateOne(m.ctx, filter, update)
	return err
}

// AdjustRewards applies a field-level increment to the withdrawable
// balance. Used with a negative delta on withdrawal approval.
func (m *MongoDB) AdjustRewards(userId int64, delta int64) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionUsers)
	filter := bson.D{{Key: "telegram_id", Value: userId}}
	update := bson.D{{Key: "$inc", Value: bson.D{{Key: "rewards", Value: delta}}}}
	_, err = collection.UpdateOne(m.ctx, filter, update)
	return err
}

// --- Payment requests ---

func (m *MongoDB) AddPaymentRequest(req *entity.PaymentRequest) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionPayments)
	_, err = collection.InsertOne(m.ctx, req)
	return err
}

func (m *MongoDB) GetPaymentRequest(id string) (*entity.PaymentRequest, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionPayments)
	var req entity.PaymentRequest
	err = collection.FindOne(m.ctx, bson.D{{Key: "id", Value: id}}).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb find payment request: %w", err)
	}
	return &req, nil
}

func (m *MongoDB) PendingPayments() ([]*entity.PaymentRequest, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionPayments)
	cursor, err := collection.Find(m.ctx, bson.D{{Key: "status", Value: entity.StatusPending}})
	if err != nil {
		return nil, fmt.Errorf("mongodb find pending payments: %w", err)
	}
	defer cursor.Close(m.ctx)

	var requests []*entity.PaymentRequest
	if err = cursor.All(m.ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (m *MongoDB) SetPaymentStatus(id string, status entity.RequestStatus) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionPayments)
	filter := bson.D{{Key: "id", Value: id}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "status", Value: status}}}}
	_, err = collection.UpdateOne(m.ctx, filter, update)
	return err
}

// --- Withdrawal requests ---

func (m *MongoDB) AddWithdrawalRequest(req *entity.WithdrawalRequest) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionWithdrawals)
	_, err = collection.InsertOne(m.ctx, req)
	return err
}

func (m *MongoDB) GetWithdrawalRequest(id string) (*entity.WithdrawalRequest, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionWithdrawals)
	var req entity.WithdrawalRequest
	err = collection.FindOne(m.ctx, bson.D{{Key: "id", Value: id}}).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb find withdrawal request: %w", err)
	}
	return &req, nil
}

func (m *MongoDB) PendingWithdrawals() ([]*entity.WithdrawalRequest, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionWithdrawals)
	cursor, err := collection.Find(m.ctx, bson.D{{Key: "status", Value: entity.StatusPending}})
	if err != nil {
		return nil, fmt.Errorf("mongodb find pending withdrawals: %w", err)
	}
	defer cursor.Close(m.ctx)

	var requests []*entity.WithdrawalRequest
	if err = cursor.All(m.ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (m *MongoDB) SetWithdrawalStatus(id string, status entity.RequestStatus) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionWithdrawals)
	filter := bson.D{{Key: "id", Value: id}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "status", Value: status}}}}
	_, err = collection.UpdateOne(m.ctx, filter, update)
	return err
}

// --- Live config ---

func (m *MongoDB) GetConfigEntry(key string) (*entity.ConfigEntry, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionConfig)
	var entry entity.ConfigEntry
	err = collection.FindOne(m.ctx, bson.D{{Key: "key", Value: key}}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb find config entry: %w", err)
	}
	return &entry, nil
}

func (m *MongoDB) SetConfigEntry(key string, value interface{}, updatedBy string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionConfig)
	filter := bson.D{{Key: "key", Value: key}}
	update := bson.D{{Key: "$set", Value: &entity.ConfigEntry{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
		UpdatedBy: updatedBy,
	}}}
	opts := options.Update().SetUpsert(true)
	_, err = collection.UpdateOne(m.ctx, filter, update, opts)
	return err
}

func (m *MongoDB) AllConfigEntries() ([]*entity.ConfigEntry, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionConfig)
	cursor, err := collection.Find(m.ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("mongodb find config entries: %w", err)
	}
	defer cursor.Close(m.ctx)

	var entries []*entity.ConfigEntry
	if err = cursor.All(m.ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
