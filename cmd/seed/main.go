package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_models "go-crm-automation/internal/common/models"
	"go-crm-automation/internal/config"
	"go-crm-automation/internal/features/automation"
	"go-crm-automation/internal/features/scheduler"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.DBName)

	fmt.Println("Seeding demo data...")

	// Clients
	clientCol := db.Collection("clients")
	clients := []common_models.Client{
		{Name: "Acme Corp", Email: "sales@acme.example", Phone: "+1-555-0100"},
		{Name: "Globex", Email: "contact@globex.example", Phone: "+1-555-0101"},
		{Name: "Initech", Email: "info@initech.example", Phone: "+1-555-0102"},
	}
	clientIDs := make([]primitive.ObjectID, 0, len(clients))
	for _, cl := range clients {
		if count, _ := clientCol.CountDocuments(ctx, bson.M{"name": cl.Name}); count > 0 {
			var existing common_models.Client
			clientCol.FindOne(ctx, bson.M{"name": cl.Name}).Decode(&existing)
			clientIDs = append(clientIDs, existing.ID)
			continue
		}
		cl.ID = primitive.NewObjectID()
		cl.CreatedAt = time.Now()
		cl.UpdatedAt = time.Now()
		if _, err := clientCol.InsertOne(ctx, cl); err != nil {
			log.Printf("Failed to create client %s: %v", cl.Name, err)
			continue
		}
		clientIDs = append(clientIDs, cl.ID)
	}
	fmt.Printf("Seeded %d clients\n", len(clientIDs))

	// Deals: two stale leads and one fresh, so the lead-age check has
	// something to find.
	dealCol := db.Collection("deals")
	deals := []struct {
		title string
		stage common_models.DealStage
		value float64
		age   time.Duration
	}{
		{"Acme expansion", common_models.StageLead, 25000, 10 * 24 * time.Hour},
		{"Globex pilot", common_models.StageLead, 8000, 9 * 24 * time.Hour},
		{"Initech renewal", common_models.StageLead, 15000, 2 * 24 * time.Hour},
		{"Acme support contract", common_models.StageNegotiation, 12000, 20 * 24 * time.Hour},
	}
	for i, d := range deals {
		if count, _ := dealCol.CountDocuments(ctx, bson.M{"title": d.title}); count > 0 {
			continue
		}
		var clientID *primitive.ObjectID
		if len(clientIDs) > 0 {
			id := clientIDs[i%len(clientIDs)]
			clientID = &id
		}
		deal := common_models.Deal{
			ID:        primitive.NewObjectID(),
			Title:     d.title,
			Stage:     d.stage,
			Value:     d.value,
			ClientID:  clientID,
			CreatedAt: time.Now().Add(-d.age),
			UpdatedAt: time.Now().Add(-d.age),
		}
		if _, err := dealCol.InsertOne(ctx, deal); err != nil {
			log.Printf("Failed to create deal %s: %v", d.title, err)
		}
	}
	fmt.Println("Seeded deals")

	// Tasks: one due soon for the reminder check
	taskCol := db.Collection("tasks")
	if count, _ := taskCol.CountDocuments(ctx, bson.M{"title": "Prepare Q3 proposal"}); count == 0 {
		var clientID *primitive.ObjectID
		if len(clientIDs) > 0 {
			clientID = &clientIDs[0]
		}
		task := common_models.Task{
			ID:        primitive.NewObjectID(),
			Title:     "Prepare Q3 proposal",
			Priority:  common_models.PriorityHigh,
			Status:    common_models.TaskStatusInProgress,
			DueDate:   time.Now().Add(12 * time.Hour),
			ClientID:  clientID,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if _, err := taskCol.InsertOne(ctx, task); err != nil {
			log.Printf("Failed to create task: %v", err)
		}
	}
	fmt.Println("Seeded tasks")

	// Automation rules
	ruleCol := db.Collection("automation_rules")
	rules := []automation.AutomationRule{
		{
			Name:        "Notify on closed deals",
			Description: "Ping the team whenever a deal reaches Closed",
			TriggerType: automation.TriggerDealStageChange,
			Conditions: []automation.RuleCondition{
				{Field: "stage", Operator: automation.OperatorEquals, Value: "Closed"},
			},
			Actions: []automation.ActionSpec{
				{Action: &automation.SendNotificationAction{Message: "A deal was closed!"}},
			},
			Enabled: true,
		},
		{
			Name:        "Welcome task for new clients",
			TriggerType: automation.TriggerClientAdded,
			Conditions:  []automation.RuleCondition{},
			Actions: []automation.ActionSpec{
				{Action: &automation.CreateTaskAction{Title: "Schedule onboarding call", Priority: common_models.PriorityMedium}},
			},
			Enabled: true,
		},
	}
	for _, r := range rules {
		if count, _ := ruleCol.CountDocuments(ctx, bson.M{"name": r.Name}); count > 0 {
			continue
		}
		r.ID = primitive.NewObjectID()
		r.CreatedAt = time.Now()
		r.UpdatedAt = time.Now()
		if _, err := ruleCol.InsertOne(ctx, r); err != nil {
			log.Printf("Failed to create rule %s: %v", r.Name, err)
		}
	}
	fmt.Println("Seeded automation rules")

	// Scheduled tasks
	schedCol := db.Collection("scheduled_tasks")
	scheduled := []scheduler.ScheduledTask{
		{
			Name:        "Daily lead-age check",
			Description: "Create follow-up tasks for leads older than 7 days",
			Schedule:    "every 24h",
			Action:      automation.ActionSpec{Action: &automation.CheckLeadAgeAction{Days: 7}},
			Enabled:     true,
		},
		{
			Name:        "Due-task reminders",
			Description: "Attach reminder notes to tasks due within 24 hours",
			Schedule:    "every 6h",
			Action:      automation.ActionSpec{Action: &automation.CheckTaskDueAction{HoursBefore: 24}},
			Enabled:     true,
		},
	}
	for _, st := range scheduled {
		if count, _ := schedCol.CountDocuments(ctx, bson.M{"name": st.Name}); count > 0 {
			continue
		}
		st.ID = primitive.NewObjectID()
		st.CreatedAt = time.Now()
		st.UpdatedAt = time.Now()
		if _, err := schedCol.InsertOne(ctx, st); err != nil {
			log.Printf("Failed to create scheduled task %s: %v", st.Name, err)
		}
	}
	fmt.Println("Seeded scheduled tasks")

	fmt.Println("Done.")
}
