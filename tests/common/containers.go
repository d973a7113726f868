package common

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	imageRepo = "vire-picks"
	imageTag  = "test"
	httpPort  = "8501/tcp"
)

var (
	buildOnce       sync.Once
	buildError      error
	picksContainer  *PicksContainer
	picksOnce       sync.Once
	picksStartError error
)

// PicksContainer wraps the vire-picks container serving tests/testdata.
type PicksContainer struct {
	container testcontainers.Container
	cancel    context.CancelFunc
	url       string
}

// URL returns the base URL of the running container.
func (p *PicksContainer) URL() string {
	return p.url
}

// CollectLogs saves container stdout/stderr to dir/vire-picks.log.
func (p *PicksContainer) CollectLogs(dir string) {
	if p == nil || p.container == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	os.MkdirAll(dir, 0755)

	reader, err := p.container.Logs(ctx)
	if err != nil {
		return
	}
	defer reader.Close()

	logs, err := io.ReadAll(reader)
	if err != nil {
		return
	}
	os.WriteFile(filepath.Join(dir, "vire-picks.log"), logs, 0644)
}

// Cleanup terminates the container.
// Uses a fresh context for teardown in case the main context expired.
func (p *PicksContainer) Cleanup() {
	if p == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if p.container != nil {
		p.container.Terminate(ctx)
	}
	if p.cancel != nil {
		p.cancel()
	}
}

// FindProjectRoot walks up from the working directory to the go.mod.
func FindProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "."
		}
		dir = parent
	}
}

// buildImage builds the vire-picks:test Docker image once per test run.
func buildImage() error {
	buildOnce.Do(func() {
		req := testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				FromDockerfile: testcontainers.FromDockerfile{
					Context:    FindProjectRoot(),
					Dockerfile: "tests/docker/Dockerfile.server",
					Repo:       imageRepo,
					Tag:        imageTag,
					KeepImage:  true,
				},
			},
		}

		_, buildError = testcontainers.GenericContainer(context.Background(), req)
		if buildError != nil {
			// Image may have built successfully even if container creation failed
			if strings.Contains(buildError.Error(), imageRepo+":"+imageTag) {
				buildError = nil
			}
		}
	})
	return buildError
}

func startContainer() (*PicksContainer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)

	ctr, err := testcontainers.Run(ctx, imageRepo+":"+imageTag,
		testcontainers.WithExposedPorts(httpPort),
		testcontainers.WithEnv(map[string]string{
			"VIRE_SERVER_HOST":   "0.0.0.0",
			"VIRE_SERVER_PORT":   "8501",
			"VIRE_SNAPSHOT_PATH": "/app/data/today.json",
			"VIRE_EQUITY_PATH":   "/app/data/equity.csv",
			"VIRE_LOG_LEVEL":     "debug",
		}),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/api/health").WithPort(httpPort).WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("start vire-picks: %w", err)
	}

	mappedPort, err := ctr.MappedPort(ctx, httpPort)
	if err != nil {
		ctr.Terminate(ctx)
		cancel()
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		ctr.Terminate(ctx)
		cancel()
		return nil, fmt.Errorf("get host: %w", err)
	}

	return &PicksContainer{
		container: ctr,
		cancel:    cancel,
		url:       fmt.Sprintf("http://%s:%s", host, mappedPort.Port()),
	}, nil
}

// StartForTestMain starts the container for use in TestMain (no *testing.T).
// Returns (nil, nil) when VIRE_TEST_URL is set (manual mode).
func StartForTestMain() (*PicksContainer, error) {
	if os.Getenv("VIRE_TEST_URL") != "" {
		return nil, nil
	}

	picksOnce.Do(func() {
		if err := buildImage(); err != nil {
			picksStartError = fmt.Errorf("build image: %w", err)
			return
		}
		picksContainer, picksStartError = startContainer()
	})

	return picksContainer, picksStartError
}
