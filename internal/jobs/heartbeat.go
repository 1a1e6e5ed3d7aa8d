package jobs

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/dto"
	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/service"

	"go.uber.org/zap"
)

const (
	heartbeatTimestampLayout = "02/01/2006-15:04:05"
	helloProbeTimeout        = 10 * time.Second
)

// Heartbeat records that the CRM is alive and, in the full variant,
// that the query surface answers the hello query.
type Heartbeat struct {
	baseURL string
	sink    *LogSink
	client  *http.Client
	log     *zap.Logger
	now     func() time.Time
}

func NewHeartbeat(baseURL string, sink *LogSink, log *zap.Logger) *Heartbeat {
	return &Heartbeat{
		baseURL: strings.TrimRight(baseURL, "/"),
		sink:    sink,
		client:  &http.Client{Timeout: helloProbeTimeout},
		log:     log,
		now:     time.Now,
	}
}

// Run logs the heartbeat together with the hello-probe outcome. A probe
// failure is recorded as unresponsive, never raised.
func (h *Heartbeat) Run(ctx context.Context) {
	ts := h.now().Format(heartbeatTimestampLayout)

	if h.probeHello(ctx) {
		h.sink.Append(ts + " CRM is alive - hello endpoint responsive")
	} else {
		h.sink.Append(ts + " CRM is alive - hello endpoint unresponsive")
	}
}

// RunSimple logs aliveness only, without probing the query surface.
func (h *Heartbeat) RunSimple() {
	h.sink.Append(h.now().Format(heartbeatTimestampLayout) + " CRM is alive")
}

func (h *Heartbeat) probeHello(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/hello", nil)
	if err != nil {
		h.log.Error("failed to build hello probe request", zap.Error(err))
		return false
	}

	resp, err := h.client.Do(req)
	if err != nil {
		h.sink.Append(h.now().Format(heartbeatTimestampLayout) + " hello probe error: " + err.Error())
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var hello dto.HelloResponse
	if err := json.NewDecoder(resp.Body).Decode(&hello); err != nil {
		return false
	}
	return hello.Data.Hello == service.HelloMessage
}
