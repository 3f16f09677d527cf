package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"motor-controller/internal/core"
	"motor-controller/internal/hardware"
	"motor-controller/internal/logger"
	"motor-controller/internal/messaging"
	"motor-controller/internal/types"
)

func main() {
	var serviceLogLevel int
	flag.IntVar(&serviceLogLevel, "log", 3, "Service log level (0=NONE, 1=ERROR, 2=WARN, 3=INFO, 4=DEBUG)")

	var redisHost string
	var redisPort int
	flag.StringVar(&redisHost, "redis-host", "127.0.0.1", "Redis server host")
	flag.IntVar(&redisPort, "redis-port", 6379, "Redis server port")

	var tickPeriod time.Duration
	flag.DurationVar(&tickPeriod, "tick", 500*time.Microsecond, "Hardware tick period")

	var loopMode string
	flag.StringVar(&loopMode, "loop", string(types.LoopSpeed), "Regulation loop mode (speed or torque)")

	flag.Parse()

	// Create standard logger with appropriate format
	var stdLogger *log.Logger
	if os.Getenv("INVOCATION_ID") != "" {
		// Running under systemd, use minimal format
		stdLogger = log.New(os.Stdout, "", 0)
	} else {
		// Running interactively, use timestamps
		stdLogger = log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds|log.Lmsgprefix)
	}

	l := logger.NewLogger(stdLogger, logger.LogLevel(serviceLogLevel))

	if loopMode != string(types.LoopSpeed) && loopMode != string(types.LoopTorque) {
		l.Fatalf("Invalid loop mode %q", loopMode)
	}

	l.Infof("Starting motor controller...")

	cfg := core.DefaultConfig()
	cfg.RedisHost = redisHost
	cfg.RedisPort = redisPort
	cfg.TickPeriod = tickPeriod
	cfg.LoopMode = types.LoopMode(loopMode)

	io := hardware.NewLinuxHardwareIO(l)
	ticker := hardware.NewTimerfdTicker(cfg.TickPeriod, l)
	redis := messaging.NewRedisClient(cfg.RedisHost, cfg.RedisPort, l)

	system := core.NewMotorSystem(cfg, io, ticker, redis, l)
	if err := system.Start(); err != nil {
		l.Fatalf("Failed to start system: %v", err)
	}

	l.Infof("System started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	l.Infof("Received signal %v, shutting down...", sig)
	system.Shutdown()
	l.Infof("Shutdown complete")
}
