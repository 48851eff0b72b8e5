package main

import (
	"flag"

	"go.uber.org/zap"

	"wtfCatalog/crud"
	"wtfCatalog/http"
)

// main is the app's entry point.
func main() {
	// Check if the flag "-reset" has been provided. It means that all database
	// tables should be dropped and rebuilt before the application starts.
	resetBool := flag.Bool("reset", false, "Provide this flag to drop and recreate all database tables on startup.")
	flag.Parse()

	// Load configuration from the environment, falling back to the default dev setup.
	config := LoadConfig()

	// Set up structured logging.
	logger, err := newLogger(config.IsProd())
	must(err)
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// Open a database connection and execute migrations.
	db := NewDB(config.Database.ConnectionInfo())
	err = Open(db, config.IsProd())
	if err != nil {
		logger.Fatal("err opening database connection", zap.Error(err))
	}
	defer Close(db)
	if *resetBool {
		err = DestructiveReset(db)
	} else {
		err = AutoMigrate(db)
	}
	if err != nil {
		logger.Fatal("err migrating database", zap.Error(err))
	}

	// Start the crud services. The like service keeps the product like
	// counter in sync, so WithProduct has to come before WithLike.
	services, err := crud.NewServices(
		db.Gorm,
		crud.WithUser(config.Pepper),
		crud.WithProduct(),
		crud.WithReview(),
		crud.WithLike(),
	)
	if err != nil {
		logger.Fatal("err starting crud services", zap.Error(err))
	}

	// Set up a webserver.
	server := http.NewServer(logger, config.JWT.Secret, config.JWT.ExpiresIn, services)

	// Serve the app.
	logger.Info("listening", zap.Int("port", config.Port), zap.String("env", config.Env))
	if err := server.Run(config.Port); err != nil {
		logger.Fatal("err serving", zap.Error(err))
	}
}

// newLogger builds the zap logger matching the environment.
func newLogger(isProd bool) (*zap.Logger, error) {
	if isProd {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// must is a little helper for shortening the panic instruction.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
