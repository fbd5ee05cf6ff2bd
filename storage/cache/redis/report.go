package redisrepos

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/Dharshini-7v/report-card/core"
	"github.com/Dharshini-7v/report-card/core/report"
)

const reportKeyPrefix = "report:" // String: report:{owner} -> JSON encoded report.Report

func reportKey(owner string) string {
	return reportKeyPrefix + owner
}

// Open creates a client for the configured redis server and checks it answers.
func Open(ctx context.Context, conf *core.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return client, nil
}

type reportRepository struct {
	client redis.Cmdable
	ttl    time.Duration // 0: no expiration
}

var _ report.Repository = (*reportRepository)(nil) // interface compliance check

func NewReportRepository(client redis.Cmdable, ttl time.Duration) report.Repository {
	return &reportRepository{client: client, ttl: ttl}
}

func (repo *reportRepository) SaveReport(ctx context.Context, rep report.Report) error {
	data, err := json.Marshal(rep)
	if err != nil {
		return errors.Wrap(err, "marshalling report")
	}
	if err = repo.client.Set(ctx, reportKey(rep.Owner), data, repo.ttl).Err(); err != nil {
		return errors.Wrap(err, "setting report")
	}
	return nil
}

func (repo *reportRepository) GetReport(ctx context.Context, owner string) (report.Report, error) {
	data, err := repo.client.Get(ctx, reportKey(owner)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return report.Report{}, report.ErrNotFound
		}
		return report.Report{}, errors.Wrap(err, "getting report")
	}

	var rep report.Report
	if err = json.Unmarshal(data, &rep); err != nil {
		return report.Report{}, errors.Wrap(err, "unmarshalling report")
	}
	return rep, nil
}

func (repo *reportRepository) DeleteReport(ctx context.Context, owner string) error {
	if err := repo.client.Del(ctx, reportKey(owner)).Err(); err != nil {
		return errors.Wrap(err, "deleting report")
	}
	return nil
}
