package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/innosenze88/ExpertAdvisor/internal/config"
)

const defaultConfigPath = "internal/config/config.yaml"

func main() {
	reader := bufio.NewReader(os.Stdin)

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	for {
		fmt.Println("\n=== ExpertAdvisor Signal Server ===")
		fmt.Println("1) Show configuration summary")
		fmt.Println("2) Edit listener")
		fmt.Println("3) Edit RSI thresholds")
		fmt.Println("4) Save config")
		fmt.Println("5) Launch signal server")
		fmt.Println("6) Reload config from disk")
		fmt.Println("0) Exit")
		fmt.Print("Select option: ")

		input, _ := reader.ReadString('\n')
		choice := strings.TrimSpace(input)

		switch choice {
		case "1":
			printSummary(cfg)
		case "2":
			editListener(reader, cfg)
		case "3":
			editStrategy(reader, cfg)
		case "4":
			if err := saveConfig(cfg); err != nil {
				fmt.Fprintf(os.Stderr, "save failed: %v\n", err)
			} else {
				fmt.Println("config saved")
			}
		case "5":
			launchServer(reader)
		case "6":
			reloaded, err := loadConfig()
			if err != nil {
				fmt.Fprintf(os.Stderr, "reload failed: %v\n", err)
			} else {
				cfg = reloaded
				fmt.Println("config reloaded")
			}
		case "0":
			return
		default:
			fmt.Println("unknown option")
		}
	}
}

func printSummary(cfg *config.Config) {
	fmt.Println("\n--- Configuration Summary ---")
	fmt.Printf("Listen address: %s\n", cfg.Server.Addr())
	fmt.Printf("Read buffer: %d bytes | idle poll: %s | write timeout: %s\n",
		cfg.Server.ReadBufferSize, cfg.Server.IdlePoll(), cfg.Server.WriteTimeout())
	fmt.Printf("Strategy: %s\n", cfg.Strategy.Mode)
	fmt.Printf("Buy below RSI %.2f | sell above RSI %.2f\n", cfg.Strategy.Params.BuyBelow, cfg.Strategy.Params.SellAbove)
	fmt.Printf("SL/TP offset: %.5f\n", cfg.Strategy.Params.Point)
	metricsAddr := cfg.App.MetricsAddr
	if metricsAddr == "" {
		metricsAddr = "disabled"
	}
	fmt.Printf("Metrics: %s | log level: %s\n", metricsAddr, cfg.App.LogLevel)
}

func editListener(reader *bufio.Reader, cfg *config.Config) {
	fmt.Println("\n--- Edit Listener ---")
	cfg.Server.Host = promptString(reader, "Host", cfg.Server.Host)
	cfg.Server.Port = int(promptFloat(reader, "Port", float64(cfg.Server.Port)))
	cfg.Server.IdlePollMs = int(promptFloat(reader, "Idle poll (ms)", float64(cfg.Server.IdlePollMs)))
	cfg.Server.WriteTimeoutMs = int(promptFloat(reader, "Write timeout (ms, 0 = none)", float64(cfg.Server.WriteTimeoutMs)))
}

func editStrategy(reader *bufio.Reader, cfg *config.Config) {
	fmt.Println("\n--- Edit RSI Thresholds ---")
	cfg.Strategy.Params.BuyBelow = promptFloat(reader, "Buy below RSI", cfg.Strategy.Params.BuyBelow)
	cfg.Strategy.Params.SellAbove = promptFloat(reader, "Sell above RSI", cfg.Strategy.Params.SellAbove)
	cfg.Strategy.Params.Point = promptFloat(reader, "SL/TP offset", cfg.Strategy.Params.Point)
	if err := cfg.Validate(); err != nil {
		fmt.Printf("warning: %v\n", err)
	}
}

func launchServer(reader *bufio.Reader) {
	fmt.Println("Launching signal server (Ctrl+C to stop)...")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmd := exec.CommandContext(ctx, "go", "run", "./cmd/server")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), "EA_CONFIG="+locateConfig())

	if err := cmd.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start server: %v\n", err)
		return
	}

	go func() {
		_ = cmd.Wait()
		cancel()
	}()

	fmt.Print("\nPress ENTER to stop the server and return to menu...")
	_, _ = reader.ReadString('\n')
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func promptString(reader *bufio.Reader, label, current string) string {
	fmt.Printf("%s [%s]: ", label, current)
	line, _ := reader.ReadString('\n')
	if line = strings.TrimSpace(line); line == "" {
		return current
	}
	return line
}

func promptFloat(reader *bufio.Reader, label string, current float64) float64 {
	fmt.Printf("%s [%g]: ", label, current)
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return current
	}
	val, err := strconv.ParseFloat(strings.ReplaceAll(line, ",", "."), 64)
	if err != nil {
		fmt.Printf("invalid number, keeping %g\n", current)
		return current
	}
	return val
}

func loadConfig() (*config.Config, error) {
	return config.Load(locateConfig())
}

func saveConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return config.Save(locateConfig(), cfg)
}

func locateConfig() string {
	if p := os.Getenv("EA_CONFIG"); p != "" {
		return p
	}
	return filepath.Clean(defaultConfigPath)
}
