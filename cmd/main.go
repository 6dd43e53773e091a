package main

import (
	"log"
	"os"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/awashimakentaro/diet/config"
	"github.com/awashimakentaro/diet/controllers"
	"github.com/awashimakentaro/diet/repository"
	"github.com/awashimakentaro/diet/routes"
	"github.com/awashimakentaro/diet/services"
	"github.com/awashimakentaro/diet/store"
	"github.com/awashimakentaro/diet/utils"
)

func main() {
	config.InitDB()
	utils.InitS3()

	// The AI endpoint is optional: without a key, analysis is reported as
	// unavailable instead of failing at startup.
	var llm llms.Model
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		model := os.Getenv("ANALYZE_MODEL")
		if model == "" {
			model = "gpt-4o-mini"
		}
		opts := []openai.Option{openai.WithToken(key), openai.WithModel(model)}
		if base := os.Getenv("OPENAI_BASE_URL"); base != "" {
			opts = append(opts, openai.WithBaseURL(base))
		}
		l, err := openai.New(opts...)
		if err != nil {
			log.Fatalf("LLM init failed: %v", err)
		}
		llm = l
	} else {
		log.Println("OPENAI_API_KEY not set; meal analysis is unavailable")
	}

	rek, err := services.NewRekognitionService()
	if err != nil {
		log.Printf("rekognition unavailable: %v", err)
		rek = nil
	}
	push, err := services.NewPushService()
	if err != nil {
		log.Fatalf("push service init failed: %v", err)
	}

	stores := store.NewManager()
	hub := services.NewRealtimeHub()
	summary := services.NewSummaryService(hub)

	userRepo := repository.NewUserRepo(config.DB)
	mealRepo := repository.NewMealRepo(config.DB)
	libraryRepo := repository.NewLibraryRepo(config.DB)
	goalRepo := repository.NewGoalRepo(config.DB)
	notificationRepo := repository.NewNotificationRepo(config.DB)

	authSvc := services.NewAuthService(userRepo)
	analyzeSvc := services.NewAnalyzeService(llm, rek)
	draftSvc := services.NewDraftService()
	mealSvc := services.NewMealService(mealRepo, stores, summary)
	librarySvc := services.NewLibraryService(libraryRepo, stores)
	goalSvc := services.NewGoalService(goalRepo, stores, summary)
	notificationSvc := services.NewNotificationService(notificationRepo, stores, push)

	r := routes.SetupRouter(routes.Controllers{
		Auth:          controllers.NewAuthController(authSvc, stores),
		Analyze:       controllers.NewAnalyzeController(analyzeSvc, draftSvc),
		Drafts:        controllers.NewDraftController(draftSvc, analyzeSvc, librarySvc, stores),
		Meals:         controllers.NewMealController(mealSvc, draftSvc, stores),
		Summary:       controllers.NewSummaryController(summary, goalSvc, mealSvc, stores),
		Goals:         controllers.NewGoalController(goalSvc),
		Library:       controllers.NewLibraryController(librarySvc, stores),
		Notifications: controllers.NewNotificationController(notificationSvc),
		Realtime:      controllers.NewRealtimeController(hub),
	}, userRepo)

	r.Run(":8080")
}
