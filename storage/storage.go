package storage

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Dharshini-7v/report-card/core"
	"github.com/Dharshini-7v/report-card/core/report"
	"github.com/Dharshini-7v/report-card/core/user"
	redisrepos "github.com/Dharshini-7v/report-card/storage/cache/redis"
	"github.com/Dharshini-7v/report-card/storage/database"
	inmemdb "github.com/Dharshini-7v/report-card/storage/database/inmem"
	sqlxrepos "github.com/Dharshini-7v/report-card/storage/database/sqlx"
)

// Stores holds the repositories selected by the configuration.
type Stores struct {
	Users   user.Repository
	Reports report.Repository

	DB    *sqlx.DB      // nil with in-memory storage
	Redis *redis.Client // nil when reports are kept with the accounts
}

// Open selects the backends: postgres when database.engine is set (in-memory otherwise),
// and redis for reports when redis.addr is set.
func Open(ctx context.Context, conf *core.Config, logger core.Logger) (*Stores, error) {
	stores := new(Stores)

	if conf.Database.Engine != "" {
		db, err := database.Open(conf)
		if err != nil {
			return nil, errors.Wrap(err, "opening database")
		}
		if err = database.Migrate(db.DB); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(err, "migrating database")
		}
		logger.Info(fmt.Sprintf("database %q ready at %s", conf.Database.Name, conf.Database.Address()))

		stores.DB = db
		stores.Users = sqlxrepos.NewUserRepository(db)
		stores.Reports = sqlxrepos.NewReportRepository(db)
	} else {
		mem := inmemdb.Open()
		stores.Users = inmemdb.NewUserRepository(mem)
		stores.Reports = inmemdb.NewReportRepository(mem)

		if err := seedDemoUser(ctx, conf, stores.Users); err != nil {
			return nil, errors.Wrap(err, "seeding demo user")
		}
		logger.Info("using in-memory storage")
	}

	if conf.Redis.Addr != "" {
		client, err := redisrepos.Open(ctx, conf)
		if err != nil {
			_ = stores.Close()
			return nil, errors.Wrap(err, "opening redis")
		}
		logger.Info(fmt.Sprintf("reports cached in redis at %s", conf.Redis.Addr))

		stores.Redis = client
		stores.Reports = redisrepos.NewReportRepository(client, conf.Redis.TTL)
	}

	return stores, nil
}

// Close releases the connections held by the stores.
func (s *Stores) Close() error {
	var err error
	if s.Redis != nil {
		if rErr := s.Redis.Close(); rErr != nil {
			err = errors.Wrap(rErr, "closing redis")
		}
	}
	if s.DB != nil {
		if dErr := s.DB.Close(); dErr != nil {
			err = errors.Wrap(dErr, "closing database")
		}
	}
	return err
}

// seedDemoUser creates the configured demo account so in-memory storage can be logged into.
func seedDemoUser(ctx context.Context, conf *core.Config, repo user.Repository) error {
	if conf.Demo.Username == "" {
		return nil
	}
	now := user.NowFunc().UTC()
	usr := user.User{
		Username:  core.CleanString(conf.Demo.Username, true /* lower */),
		Dept:      conf.Demo.Dept,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(conf.Demo.Password); err != nil {
		return err
	}
	if _, err := repo.CreateUser(ctx, usr); err != nil && err != user.ErrUsernameExists {
		return err
	}
	return nil
}
