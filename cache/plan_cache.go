package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"retunefm/core/plan"
	"retunefm/model"
)

const (
	planTTL = time.Hour
	jobTTL  = 24 * time.Hour
)

// PlanKey builds the cache key for a dry-run plan. Plans are pure functions
// of their inputs, so the inputs are the key.
func PlanKey(filename, targetKey string, targetBPM int) string {
	return fmt.Sprintf("plan:%s|%s|%d", filename, targetKey, targetBPM)
}

// PutPlan caches a computed plan. A nil client or a Redis error is ignored;
// the plan is cheap to recompute.
func PutPlan(ctx context.Context, key string, p *plan.TransformPlan) {
	if RedisClient == nil {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	RedisClient.Set(ctx, key, data, planTTL)
}

// GetPlan returns a cached plan, or nil on miss or Redis failure.
func GetPlan(ctx context.Context, key string) *plan.TransformPlan {
	if RedisClient == nil {
		return nil
	}
	data, err := RedisClient.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var p plan.TransformPlan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil
	}
	return &p
}

func jobKey(id string) string {
	return fmt.Sprintf("job:%s", id)
}

// PutJob mirrors a job record into Redis so status reads skip the database.
func PutJob(ctx context.Context, job *model.RemixJob) {
	if RedisClient == nil {
		return
	}
	data, err := json.Marshal(job)
	if err != nil {
		return
	}
	RedisClient.Set(ctx, jobKey(job.ID), data, jobTTL)
}

// GetJob returns a cached job, or nil on miss or Redis failure.
func GetJob(ctx context.Context, id string) *model.RemixJob {
	if RedisClient == nil {
		return nil
	}
	// Misses and connection trouble both degrade to a database read.
	data, err := RedisClient.Get(ctx, jobKey(id)).Bytes()
	if err != nil {
		return nil
	}
	var job model.RemixJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil
	}
	return &job
}
