package main

import (
	"flag"
	"time"

	"golang.org/x/time/rate"
	"k8s.io/klog/v2"

	"environmental-node/agent/pkg/aggregate"
	"environmental-node/agent/pkg/alert"
	"environmental-node/agent/pkg/config"
	"environmental-node/agent/pkg/connectivity"
	"environmental-node/agent/pkg/constants"
	"environmental-node/agent/pkg/controller"
	"environmental-node/agent/pkg/diag"
	"environmental-node/agent/pkg/report"
	"environmental-node/agent/pkg/schedule"
	"environmental-node/agent/pkg/sensor"
	"environmental-node/agent/pkg/signals"
	"environmental-node/agent/pkg/timesync"
)

var (
	configPath string
	endpoint   string
	deviceID   string
	apiKey     string
	probeHost  string
	simulate   bool
)

func main() {
	klog.InitFlags(nil)
	flag.StringVar(&configPath, "config", "", "Path to YAML config file")
	flag.StringVar(&endpoint, "endpoint", "", "Ingestion endpoint URL (overrides config)")
	flag.StringVar(&deviceID, "device-id", "", "Device identifier (overrides config)")
	flag.StringVar(&apiKey, "api-key", "", "Static API credential (overrides config)")
	flag.StringVar(&probeHost, "probe-host", "", "Connectivity probe host (overrides config)")
	flag.BoolVar(&simulate, "simulate-sensors", false, "Use simulated sensor drivers")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		klog.Fatalf("Error loading configuration: %s", err.Error())
	}
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if deviceID != "" {
		cfg.DeviceID = deviceID
	}
	if apiKey != "" {
		cfg.APIKey = apiKey
	}
	if probeHost != "" {
		cfg.ProbeHost = probeHost
	}
	if simulate {
		cfg.SimulateSensors = true
	}
	if err := cfg.Validate(); err != nil {
		klog.Fatalf("Invalid configuration: %s", err.Error())
	}

	// Setup signal handler
	stopCh := signals.SetupSignalHandler()

	// Some deployments identify the node by hardware address instead of a
	// configured ID.
	reportID := cfg.DeviceID
	if cfg.UseHardwareAddress {
		mac, err := report.HardwareAddr()
		if err != nil {
			klog.Fatalf("Error resolving hardware address: %s", err.Error())
		}
		reportID = mac
	}

	// Sensor drivers. Hardware drivers are platform builds wired in by the
	// integrator; this binary carries the simulated bench drivers.
	var echoDriver sensor.EchoDriver
	var lightMeter sensor.LightMeter
	if cfg.SimulateSensors {
		seed := time.Now().UnixNano()
		echoDriver = sensor.NewSimEchoDriver(seed)
		lightMeter = sensor.NewSimLightMeter(seed + 1)
	} else {
		klog.Fatal("no hardware sensor drivers in this build; run with --simulate-sensors")
	}

	adapters := []sensor.Adapter{
		sensor.NewDistanceAdapter(
			echoDriver,
			time.Duration(cfg.EchoTimeoutMs)*time.Millisecond,
			cfg.DistanceMinCm,
			cfg.DistanceMaxCm,
		),
		sensor.NewLuminosityAdapter(lightMeter),
	}

	agg, err := aggregate.New(aggregate.Strategy(cfg.Strategy), cfg.WindowSize, constants.TrackedSignals)
	if err != nil {
		klog.Fatalf("Error building aggregator: %s", err.Error())
	}

	// Collaborators: link probe and wall clock.
	probe := connectivity.NewLinkProbe(cfg.ProbeHost, 10*time.Second, time.Minute, stopCh)
	clock := timesync.SystemClock{}

	reporter := report.NewReporter(
		cfg.Endpoint,
		cfg.APIKey,
		report.Transport(cfg.Transport),
		probe,
		time.Duration(cfg.DispatchTimeoutSec)*time.Second,
	)

	ctrl := controller.New(controller.Options{
		Gate:             schedule.NewIntervalGate(cfg.SampleIntervalMs),
		Adapters:         adapters,
		Aggregator:       agg,
		Thresholds:       alert.Thresholds{DistanceCm: cfg.DistanceAlertCm, LuminosityLx: cfg.LuminosityAlertLx},
		Reporter:         reporter,
		Clock:            clock,
		DeviceID:         reportID,
		WindowSize:       cfg.WindowSize,
		IncludeAlerts:    cfg.IncludeAlerts,
		IncludeTimestamp: cfg.IncludeTimestamp,
		ReportPartial:    cfg.ReportPartialWindow,
	})

	// Local diagnostics surface.
	diagServer := diag.NewServer(cfg.DiagAddr, rate.NewLimiter(rate.Limit(10), 20), ctrl.Status)
	go diagServer.Run()

	// Run controller
	ctrl.Run(100*time.Millisecond, stopCh)
}
