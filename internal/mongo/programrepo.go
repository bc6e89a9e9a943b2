package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/proyectospoon/menuprog/internal/menu"
	"github.com/proyectospoon/menuprog/internal/program"
)

// ProgramRepo is the direct-backend implementation of program.ScheduleStore.
type ProgramRepo struct {
	client       *mongo.Client
	db           *mongo.Database
	weeks        *mongo.Collection
	templates    *mongo.Collection
	combinations *mongo.Collection
	logger       apt.Logger
	config       *apt.Config
}

func NewProgramRepo(config *apt.Config, logger apt.Logger) *ProgramRepo {
	return &ProgramRepo{
		logger: logger,
		config: config,
	}
}

func (r *ProgramRepo) Start(ctx context.Context) error {
	mongoURL, _ := r.config.GetString("db.mongo.url")
	if mongoURL == "" {
		mongoURL = "mongodb://localhost:27017"
	}

	dbName, _ := r.config.GetString("db.mongo.name")
	if dbName == "" {
		dbName = "menuprog"
	}

	clientOptions := options.Client().ApplyURI(mongoURL).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("cannot connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("cannot ping MongoDB: %w", err)
	}

	r.client = client
	r.db = client.Database(dbName)
	r.weeks = r.db.Collection("week_programs")
	r.templates = r.db.Collection("program_templates")
	r.combinations = r.db.Collection("combinations")

	weekIndexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "scope_id", Value: 1}, {Key: "week_start", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.weeks.Indexes().CreateOne(ctx, weekIndexModel); err != nil {
		return fmt.Errorf("cannot create week index: %w", err)
	}

	templateIndexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "scope_id", Value: 1}},
	}
	if _, err := r.templates.Indexes().CreateOne(ctx, templateIndexModel); err != nil {
		return fmt.Errorf("cannot create template scope index: %w", err)
	}

	combinationIndexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "scope_id", Value: 1}},
	}
	if _, err := r.combinations.Indexes().CreateOne(ctx, combinationIndexModel); err != nil {
		return fmt.Errorf("cannot create combination scope index: %w", err)
	}

	r.logger.Infof("Connected to MongoDB: %s, database: %s", mongoURL, dbName)
	return nil
}

func (r *ProgramRepo) GetDatabase() *mongo.Database {
	return r.db
}

func (r *ProgramRepo) Stop(ctx context.Context) error {
	if r.client != nil {
		if err := r.client.Disconnect(ctx); err != nil {
			return fmt.Errorf("cannot disconnect from MongoDB: %w", err)
		}
		r.logger.Info("Disconnected from MongoDB")
	}
	return nil
}

// weekDoc is the persisted shape of a week's programming. Pool and templates
// live in their own collections and are joined at fetch time.
type weekDoc struct {
	ScopeID     menu.ScopeID                 `bson:"scope_id"`
	WeekStart   time.Time                    `bson:"week_start"`
	WeekEnd     time.Time                    `bson:"week_end"`
	Days        map[menu.Weekday][]uuid.UUID `bson:"days"`
	Status      menu.WeekStatus              `bson:"status"`
	PublishedAt *time.Time                   `bson:"published_at,omitempty"`
	CreatedAt   time.Time                    `bson:"created_at"`
	UpdatedAt   time.Time                    `bson:"updated_at"`
}

// FetchWeek loads the week programming together with the scope's combination
// pool and templates. A week with no stored programming comes back empty, not
// as an error.
func (r *ProgramRepo) FetchWeek(ctx context.Context, scopeID menu.ScopeID, weekStart time.Time) (*menu.WeekSchedule, error) {
	week := menu.NewWeekSchedule(scopeID, weekStart)

	var doc weekDoc
	err := r.weeks.FindOne(ctx, bson.M{"scope_id": scopeID, "week_start": weekStart}).Decode(&doc)
	if err != nil && err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("cannot find week programming: %w", err)
	}
	if err == nil {
		week.Days = doc.Days
		week.Status = doc.Status
		week.PublishedAt = doc.PublishedAt
	}

	pool, err := r.listCombinations(ctx, scopeID)
	if err != nil {
		return nil, err
	}
	week.Pool = pool

	templates, err := r.listTemplates(ctx, scopeID)
	if err != nil {
		return nil, err
	}
	week.Templates = templates

	week.Normalize()
	return week, nil
}

// SaveWeek upserts the week programming for the scope.
func (r *ProgramRepo) SaveWeek(ctx context.Context, scopeID menu.ScopeID, week *menu.WeekSchedule, publish bool) error {
	now := time.Now()

	status := menu.WeekDraft
	publishedAt := week.PublishedAt
	if publish {
		status = menu.WeekPublished
		publishedAt = &now
	}

	filter := bson.M{"scope_id": scopeID, "week_start": week.WeekStart}
	update := bson.M{
		"$set": bson.M{
			"week_end":     week.WeekEnd,
			"days":         week.Days,
			"status":       status,
			"published_at": publishedAt,
			"updated_at":   now,
		},
		"$setOnInsert": bson.M{
			"scope_id":   scopeID,
			"week_start": week.WeekStart,
			"created_at": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.weeks.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("cannot save week programming: %w", err)
	}
	return nil
}

// templateDoc wraps a template with its owning scope.
type templateDoc struct {
	ScopeID  menu.ScopeID  `bson:"scope_id"`
	Template menu.Template `bson:"template"`
}

// CreateTemplate stores a new template for the scope.
func (r *ProgramRepo) CreateTemplate(ctx context.Context, scopeID menu.ScopeID, tpl *menu.Template) (*menu.Template, error) {
	tpl.EnsureID()
	tpl.BeforeCreate()

	doc := templateDoc{ScopeID: scopeID, Template: *tpl}
	if _, err := r.templates.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("cannot insert template: %w", err)
	}
	return tpl, nil
}

// DeleteTemplate removes a template belonging to the scope.
func (r *ProgramRepo) DeleteTemplate(ctx context.Context, scopeID menu.ScopeID, id menu.TemplateID) error {
	result, err := r.templates.DeleteOne(ctx, bson.M{"scope_id": scopeID, "template._id": id})
	if err != nil {
		return fmt.Errorf("cannot delete template: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("delete template %s: %w", id, program.ErrTemplateNotFound)
	}
	return nil
}

// combinationDoc wraps a combination with its owning scope.
type combinationDoc struct {
	ScopeID     menu.ScopeID     `bson:"scope_id"`
	Combination menu.Combination `bson:"combination"`
}

// UpsertCombination stores a combination in the scope's available pool. Used
// by seeding and by catalog synchronization.
func (r *ProgramRepo) UpsertCombination(ctx context.Context, scopeID menu.ScopeID, combo *menu.Combination) error {
	combo.EnsureID()

	filter := bson.M{"scope_id": scopeID, "combination._id": combo.ID}
	update := bson.M{"$set": combinationDoc{ScopeID: scopeID, Combination: *combo}}

	opts := options.Update().SetUpsert(true)
	if _, err := r.combinations.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("cannot upsert combination: %w", err)
	}
	return nil
}

func (r *ProgramRepo) listCombinations(ctx context.Context, scopeID menu.ScopeID) ([]menu.Combination, error) {
	cursor, err := r.combinations.Find(ctx, bson.M{"scope_id": scopeID})
	if err != nil {
		return nil, fmt.Errorf("cannot find combinations: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []combinationDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("cannot decode combinations: %w", err)
	}

	pool := make([]menu.Combination, 0, len(docs))
	for _, doc := range docs {
		pool = append(pool, doc.Combination)
	}
	return pool, nil
}

func (r *ProgramRepo) listTemplates(ctx context.Context, scopeID menu.ScopeID) ([]menu.Template, error) {
	opts := options.Find().SetSort(bson.D{{Key: "template.created_at", Value: -1}})

	cursor, err := r.templates.Find(ctx, bson.M{"scope_id": scopeID}, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot find templates: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []templateDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("cannot decode templates: %w", err)
	}

	templates := make([]menu.Template, 0, len(docs))
	for _, doc := range docs {
		templates = append(templates, doc.Template)
	}
	return templates, nil
}
