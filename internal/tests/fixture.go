package tests

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/uksimracing/website/internal/asset"
	"github.com/uksimracing/website/internal/database"
	"github.com/uksimracing/website/internal/httphelper"
	"github.com/uksimracing/website/pkg/log"
)

const WebhookSecret = "test-webhook-secret"

type Fixture struct {
	container *postgresContainer
	Database  database.Database
	Assets    asset.Store
	DSN       string
	Close     func()
}

func NewFixture() *Fixture {
	testCtx, cancel := context.WithTimeout(context.Background(), time.Minute*2)
	defer cancel()

	testDB, errStore := newDB(testCtx)
	if errStore != nil {
		panic(errStore)
	}

	databaseConn := database.New(testDB.dsn, true, false)
	if err := databaseConn.Connect(testCtx); err != nil {
		panic(err)
	}

	uploadRoot, errUploads := os.MkdirTemp("", "uksr-uploads")
	if errUploads != nil {
		panic(errUploads)
	}

	assets, errAssets := asset.NewStore(uploadRoot)
	if errAssets != nil {
		panic(errAssets)
	}

	return &Fixture{
		container: testDB,
		Database:  databaseConn,
		Assets:    assets,
		DSN:       testDB.dsn,
		Close: func() {
			termCtx, termCancel := context.WithTimeout(context.Background(), time.Second*30)
			defer termCancel()

			_ = os.RemoveAll(uploadRoot)

			if errTerm := testDB.Terminate(termCtx); errTerm != nil {
				panic(fmt.Sprintf("Failed to terminate test container: %v", errTerm))
			}
		},
	}
}

func (f *Fixture) CreateRouter() *gin.Engine {
	router, err := httphelper.CreateRouter(httphelper.RouterOpts{LogLevel: log.Error, Mode: gin.TestMode})
	if err != nil {
		panic(err)
	}

	return router
}

// Reset truncates all tables and reapplies migrations so each test starts
// from a clean schema.
func (f *Fixture) Reset(ctx context.Context) {
	const query = `DO
$do$
BEGIN
   EXECUTE
   (SELECT 'TRUNCATE TABLE ' || string_agg(oid::regclass::text, ', ') || ' CASCADE'
    FROM   pg_class
    WHERE  relkind = 'r'
    AND    relnamespace = 'public'::regnamespace
   );
END
$do$;`

	if err := f.Database.Exec(ctx, query); err != nil {
		panic(err)
	}

	if err := f.Database.Migrate(ctx, database.MigrateUp, f.DSN); err != nil {
		panic(err)
	}
}
