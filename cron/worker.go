package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"banglabnb/config"
	"banglabnb/services/notification"
	"banglabnb/services/payout"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// TypePayoutScan is the periodic task that sweeps for due host payouts.
const TypePayoutScan = "payout:scan"

func queueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewQueueClient returns the asynq client used to enqueue tasks.
func NewQueueClient() *asynq.Client {
	return asynq.NewClient(queueRedisOpt())
}

// InitWorker runs the async worker in background. It drains queued
// notifications and executes the payout scan.
func InitWorker(payoutSvc payout.PayoutService, direct notification.NotificationService) {
	srv := asynq.NewServer(
		queueRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypePayoutScan, handlePayoutScan(payoutSvc))
	mux.HandleFunc(notification.TypeNotifySend, handleNotifySend(direct))

	go monitorRedisConnection()

	// Start async worker with retry logic.
	go func() {
		log.Println("[Worker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[Worker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[Worker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// InitScheduler registers the hourly payout scan. The scan itself is
// idempotent, so an overlapping or repeated run is harmless.
func InitScheduler() {
	scheduler := asynq.NewScheduler(queueRedisOpt(), &asynq.SchedulerOpts{
		Location: time.UTC,
	})

	task := asynq.NewTask(TypePayoutScan, nil, asynq.MaxRetry(3), asynq.Timeout(5*time.Minute))
	if _, err := scheduler.Register("@every 1h", task); err != nil {
		log.Fatalf("[Scheduler] failed to register payout scan: %v", err)
	}

	go func() {
		log.Println("[Scheduler] Starting task scheduler...")
		if err := scheduler.Run(); err != nil {
			log.Fatalf("[Scheduler] failed to run: %v", err)
		}
	}()
}

func handlePayoutScan(payoutSvc payout.PayoutService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		issued, err := payoutSvc.ProcessDue(ctx)
		if err != nil {
			log.Printf("[PayoutScan] scan failed: %v", err)
			return err
		}
		log.Printf("[PayoutScan] issued %d payout(s)", issued)
		return nil
	}
}

func handleNotifySend(direct notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p notification.Payload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[NotifySend] invalid payload: %v", err)
			return err
		}
		return direct.Notify(ctx, p.UserID, p.Kind, p.Message, p.Data)
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[Worker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
