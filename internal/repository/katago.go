package repository

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tsumego_lab/internal/bootstrap"
	"tsumego_lab/internal/domain"
	errs "tsumego_lab/internal/errors"
)

// maxResponseLine bounds one JSON line of the engine; ownership and policy
// arrays of a 19x19 board fit comfortably.
const maxResponseLine = 4 << 20

// KatagoClient управляет процессом KataGo: пишет ему в stdin, читает из stdout.
type KatagoClient struct {
	cmd      *exec.Cmd
	input    io.WriteCloser
	stdin    *bufio.Writer
	stdout   *bufio.Scanner
	mu       sync.Mutex
	response sync.Map // map[requestID]chan domain.AnalysisResponse
	done     chan struct{}
	log      *zap.SugaredLogger
}

// NewKatagoClient starts `katago analysis` with the configured model and config.
func NewKatagoClient(cfg *bootstrap.Config, log *zap.SugaredLogger) (*KatagoClient, error) {
	args := []string{"analysis", "-config", cfg.KatagoConfigPath}
	if cfg.KatagoModelPath != "" {
		args = append(args, "-model", cfg.KatagoModelPath)
	}
	cmd := exec.Command(cfg.KatagoEnginePath, args...)

	stdinPipe, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("katago stdin: %w", err)
	}
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("katago stdout: %w", err)
	}

	log.Infow("starting katago engine", "cmd", cmd.String())
	// Стартуем процесс KataGo
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start katago: %w", err)
	}

	client := NewKatagoClientFromPipes(stdinPipe, stdoutPipe, log)
	client.cmd = cmd
	return client, nil
}

// NewKatagoClientFromPipes speaks the analysis protocol over already opened
// pipes, e.g. of an engine started elsewhere.
func NewKatagoClientFromPipes(stdin io.WriteCloser, stdout io.Reader, log *zap.SugaredLogger) *KatagoClient {
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxResponseLine)

	client := &KatagoClient{
		input:  stdin,
		stdin:  bufio.NewWriter(stdin),
		stdout: scanner,
		done:   make(chan struct{}),
		log:    log,
	}

	// Запускаем горутину чтения stdout KataGo
	go client.listenForResponses()

	return client
}

func (c *KatagoClient) listenForResponses() {
	defer close(c.done)

	for c.stdout.Scan() {
		line := c.stdout.Bytes()
		c.log.Debugw("RES>", "line", string(line))

		var resp domain.AnalysisResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			c.log.Errorw("failed to unmarshal KataGo response", "error", err, "line", string(line))
			continue
		}

		if resp.Warning != "" && resp.Error == "" {
			c.log.Warnw("katago warning", "id", resp.ID, "field", resp.Field, "warning", resp.Warning)
			continue
		}
		if resp.IsDuringSearch {
			continue
		}

		// Находим канал по resp.ID
		if chIface, ok := c.response.LoadAndDelete(resp.ID); ok {
			chIface.(chan domain.AnalysisResponse) <- resp
		} else {
			c.log.Warnw("no channel found for response ID", "id", resp.ID, "error", resp.Error)
		}
	}
	if err := c.stdout.Err(); err != nil {
		c.log.Errorw("katago output stopped", "error", err)
	}
}

// Analyze sends one query and waits for its final response.
func (c *KatagoClient) Analyze(ctx context.Context, request domain.AnalysisRequest) (domain.AnalysisResponse, error) {
	if request.ID == "" {
		request.ID = GenerateUuid()
	}

	select {
	case <-c.done:
		return domain.AnalysisResponse{}, errs.ErrEngineClosed
	default:
	}

	// Канал для ответа
	responseChan := make(chan domain.AnalysisResponse, 1)
	c.response.Store(request.ID, responseChan)

	requestJSON, err := json.Marshal(request)
	if err != nil {
		c.response.Delete(request.ID)
		return domain.AnalysisResponse{}, fmt.Errorf("failed to marshal request: %w", err)
	}
	c.log.Infow("REQ>", "id", request.ID, "board", fmt.Sprintf("%dx%d", request.BoardXSize, request.BoardYSize),
		"stones", len(request.InitialStones), "maxVisits", request.MaxVisits)

	// Пишем в stdin KataGo (защищаем мьютексом, чтобы не перемешать запросы)
	c.mu.Lock()
	_, err = c.stdin.Write(append(requestJSON, '\n'))
	if err == nil {
		err = c.stdin.Flush()
	}
	c.mu.Unlock()
	if err != nil {
		c.response.Delete(request.ID)
		return domain.AnalysisResponse{}, fmt.Errorf("%w: %v", errs.ErrEngineClosed, err)
	}

	select {
	case resp := <-responseChan:
		return c.result(resp)
	case <-ctx.Done():
		c.response.Delete(request.ID)
		return domain.AnalysisResponse{}, ctx.Err()
	case <-c.done:
		// the last line may have been delivered right before EOF
		select {
		case resp := <-responseChan:
			return c.result(resp)
		default:
			c.response.Delete(request.ID)
			return domain.AnalysisResponse{}, errs.ErrEngineClosed
		}
	}
}

func (c *KatagoClient) result(resp domain.AnalysisResponse) (domain.AnalysisResponse, error) {
	if resp.Error != "" {
		return resp, fmt.Errorf("%w: %s (field %q)", errs.ErrAnalysisFailed, resp.Error, resp.Field)
	}
	c.log.Infow("RES>", "id", resp.ID, "visits", resp.RootInfo.Visits, "winrate", resp.RootInfo.Winrate)
	return resp, nil
}

// Close closes the engine input and waits for the process to exit.
func (c *KatagoClient) Close() error {
	c.mu.Lock()
	err := c.input.Close()
	c.mu.Unlock()
	if c.cmd != nil {
		if waitErr := c.cmd.Wait(); waitErr != nil && err == nil {
			err = waitErr
		}
	}
	return err
}

func GenerateUuid() string {
	return uuid.New().String()
}
