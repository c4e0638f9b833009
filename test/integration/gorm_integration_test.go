package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"blii-be/internal/entity"
	"blii-be/internal/repository/specification"
	"blii-be/internal/repository/unitofwork"
	"blii-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.ItemRepository())
	assert.NotNil(t, uow.ChatMessageRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check Item Repository", func(t *testing.T) {
		count, err := uow.ItemRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Item count: %d", count)
	})

	t.Run("Check Item Lifecycle In Transaction", func(t *testing.T) {
		ctx := context.Background()
		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		userId := uuid.New()
		itemId := uuid.New()
		now := time.Now()

		item := &entity.Item{
			Id:               itemId,
			UserId:           userId,
			Kind:             entity.ItemKindText,
			Content:          "integration test note about mortgage rates",
			Tags:             []string{"finance"},
			ExtractionStatus: entity.ExtractionCompleted,
			CreatedAt:        now,
		}

		err = uow.ItemRepository().Create(ctx, item)
		assert.NoError(t, err)

		found, err := uow.ItemRepository().FindOne(ctx,
			specification.ByID{ID: itemId},
			specification.OwnedByUser{UserID: userId},
		)
		assert.NoError(t, err)
		if assert.NotNil(t, found) {
			assert.Equal(t, "integration test note about mortgage rates", found.Content)
			assert.Equal(t, []string{"finance"}, []string(found.Tags))
		}

		// Tag search runs against the JSONB column, case-insensitively
		tagged, err := uow.ItemRepository().FindAll(ctx,
			specification.OwnedByUser{UserID: userId},
			specification.HasTag{Tags: []string{"Finance"}},
		)
		assert.NoError(t, err)
		assert.Len(t, tagged, 1)

		missed, err := uow.ItemRepository().FindAll(ctx,
			specification.OwnedByUser{UserID: userId},
			specification.HasTag{Tags: []string{"travel"}},
		)
		assert.NoError(t, err)
		assert.Len(t, missed, 0)

		// Soft delete, then confirm it only shows up in the trash view
		err = uow.ItemRepository().Delete(ctx, itemId)
		assert.NoError(t, err)

		gone, err := uow.ItemRepository().FindOne(ctx, specification.ByID{ID: itemId})
		assert.NoError(t, err)
		assert.Nil(t, gone)

		trashed, err := uow.ItemRepository().FindAll(ctx,
			specification.OnlyDeleted{},
			specification.OwnedByUser{UserID: userId},
		)
		assert.NoError(t, err)
		assert.Len(t, trashed, 1)

		t.Log("Item lifecycle verified inside transaction")
	})
}
