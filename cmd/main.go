package main

import (
	"log"

	infra "github.com/linguaday/backend/internal/infrastructure"
	"github.com/linguaday/backend/internal/infrastructure/driver"
	"github.com/linguaday/backend/internal/infrastructure/logging"
	"github.com/linguaday/backend/internal/infrastructure/uuid"
	ihttp "github.com/linguaday/backend/internal/interfaces/http"
	"github.com/linguaday/backend/internal/lesson"
	"github.com/linguaday/backend/internal/review"
	"github.com/linguaday/backend/internal/roadmap"
	"github.com/linguaday/backend/internal/user"
	"go.uber.org/zap"
)

func main() {
	log.SetFlags(log.Lshortfile | log.Ldate | log.Ltime)
	option, err := infra.InitConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewLogger(&logging.Config{
		FilePath: option.Logging.FilePath,
		Level:    option.Logging.Level,
		AppID:    option.AppID,
		Env:      option.Env,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %s\n", err)
	}
	logger = logger.With(
		zap.String("service.id", option.AppID),
	)
	defer logger.Sync()

	dbConn, err := driver.GetDBConnection(&driver.DBConfig{
		User:     option.Database.User,
		Password: option.Database.Password,
		MaxConn:  option.Database.MaxConn,
		Protocol: option.Database.Protocol,
		Driver:   option.Database.Driver,
		Host:     option.Database.Host,
		Port:     option.Database.Port,
		Query:    option.Database.Query,
		Schema:   option.Database.Schema,
	})
	if err != nil {
		log.Fatalf("Failed to create DB connection: %s\n", err)
	}
	logger.Debug("Create db connection instance", zap.String("db.driver", option.Database.Driver),
		zap.String("db.schema", option.Database.Schema),
		zap.String("db.host", option.Database.Host),
	)

	rdb := driver.NewRedisClient(option.KVStore.Host, option.KVStore.Port, option.KVStore.Password)

	UUIDGenerator := uuid.NewNanoIDGenerator(option.Security.IDLength)
	UserRepo := user.NewUserRepository(dbConn, UUIDGenerator)
	UserUseCase := user.NewUserUseCase(UserRepo)

	ProgressRepo := roadmap.NewProgressRepository(dbConn)
	AvailabilityRepo := roadmap.NewAvailabilityRepository(dbConn)
	RoadmapUseCase := roadmap.NewRoadmapUseCase(ProgressRepo, AvailabilityRepo)

	LessonRepo := lesson.NewLessonRepository(dbConn)
	LessonUseCase := lesson.NewLessonUseCase(LessonRepo, ProgressRepo, AvailabilityRepo)

	SessionStore := review.NewKVSessionStore(rdb, option.Review.SessionTTL)
	ReviewUseCase := review.NewReviewUseCase(LessonRepo, SessionStore, review.NewEngine())

	ihttp.Serve(dbConn, rdb, option, UserUseCase, UserRepo, RoadmapUseCase, LessonUseCase, ReviewUseCase, logger)
}
