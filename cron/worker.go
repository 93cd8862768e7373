package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"skybook/config"
	bookingService "skybook/services/booking"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

const TypeBookingsExpire = "bookings:expire"

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSchedulerDB,
	}
}

// InitExpiryWorker starts the background worker and the scheduler that
// periodically expires pending bookings whose payment hold has lapsed.
func InitExpiryWorker(bookingSvc bookingService.BookingService) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingsExpire, handleExpireTask(bookingSvc))

	go monitorRedisConnection()

	go func() {
		log.Println("[ExpiryWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ExpiryWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ExpiryWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	go runScheduler()
}

// runScheduler enqueues the expiry sweep on a fixed interval.
func runScheduler() {
	interval := config.AppConfig.ExpirySweepMinutes
	if interval <= 0 {
		interval = 1
	}

	scheduler := asynq.NewScheduler(redisOpts(), &asynq.SchedulerOpts{
		Location: time.UTC,
	})

	spec := fmt.Sprintf("@every %dm", interval)
	if _, err := scheduler.Register(spec, asynq.NewTask(TypeBookingsExpire, nil)); err != nil {
		log.Printf("[ExpiryWorker] Failed to register expiry sweep: %v", err)
		return
	}

	log.Printf("[ExpiryWorker] Expiry sweep scheduled every %d minute(s)", interval)
	if err := scheduler.Run(); err != nil {
		log.Printf("[ExpiryWorker] Scheduler stopped: %v", err)
	}
}

func handleExpireTask(bookingSvc bookingService.BookingService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		expired, err := bookingSvc.CheckExpired()
		if err != nil {
			log.Printf("[ExpiryHandler] Sweep failed: %v", err)
			return err
		}
		if expired > 0 {
			log.Printf("[ExpiryHandler] Expired %d overdue booking(s)", expired)
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSchedulerDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[ExpiryWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
