package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/dto"
	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/service"

	"go.uber.org/zap"
)

const (
	reconcileTimestampLayout = "2006-01-02 15:04:05"
	lowStockCallTimeout      = 30 * time.Second
)

// StockUpdater is the slice of the CRM service the reconciler needs for
// its direct-store fallback.
type StockUpdater interface {
	UpdateLowStockProducts(ctx context.Context) *service.LowStockPayload
}

// StockReconciler corrects under-threshold product stock. The primary
// variant drives the update-low-stock mutation over HTTP, as an ordinary
// API client would; when that surface is unreachable it falls back to
// the in-process service.
type StockReconciler struct {
	baseURL string
	sink    *LogSink
	client  *http.Client
	svc     StockUpdater
	log     *zap.Logger
	now     func() time.Time
}

func NewStockReconciler(baseURL string, svc StockUpdater, sink *LogSink, log *zap.Logger) *StockReconciler {
	return &StockReconciler{
		baseURL: strings.TrimRight(baseURL, "/"),
		sink:    sink,
		client:  &http.Client{Timeout: lowStockCallTimeout},
		svc:     svc,
		log:     log,
		now:     time.Now,
	}
}

func (r *StockReconciler) Run(ctx context.Context) {
	if err := r.RunViaAPI(ctx); err != nil {
		r.log.Warn("low-stock mutation surface unreachable, using direct store update", zap.Error(err))
		r.RunDirect(ctx)
	}
}

// RunViaAPI posts the update-low-stock mutation and logs its report.
// The returned error only signals that the surface was unreachable; a
// reachable surface reporting failure is logged and swallowed here.
func (r *StockReconciler) RunViaAPI(ctx context.Context) error {
	ts := r.now().Format(reconcileTimestampLayout)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/products/update-low-stock", nil)
	if err != nil {
		r.sink.Append("[" + ts + "] CRITICAL ERROR: Failed to update low stock products - " + err.Error())
		return err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.sink.Append("[" + ts + "] CRITICAL ERROR: Failed to update low stock products - " + err.Error())
		return err
	}
	defer resp.Body.Close()

	var result dto.LowStockResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		r.sink.Append("[" + ts + "] CRITICAL ERROR: Failed to update low stock products - " + err.Error())
		return err
	}

	r.sink.Append("[" + ts + "] Low stock update job started")
	r.report(ts, result)
	return nil
}

// RunDirect applies the same correction through the service, skipping
// the HTTP surface.
func (r *StockReconciler) RunDirect(ctx context.Context) {
	ts := r.now().Format(reconcileTimestampLayout)
	r.sink.Append("[" + ts + "] Low stock update job started (direct database)")

	p := r.svc.UpdateLowStockProducts(ctx)

	updated := make([]dto.UpdatedProduct, 0, len(p.UpdatedProducts))
	for _, prod := range p.UpdatedProducts {
		updated = append(updated, dto.UpdatedProduct{
			ID:    prod.ID,
			Name:  prod.Name,
			SKU:   prod.SKU,
			Stock: prod.Stock,
		})
	}
	r.report(ts, dto.LowStockResponse{
		Success:         p.Success,
		Message:         p.Message,
		UpdatedCount:    p.UpdatedCount,
		UpdatedProducts: updated,
	})
}

func (r *StockReconciler) report(ts string, result dto.LowStockResponse) {
	if result.Success {
		r.sink.Append("[" + ts + "] " + result.Message)
		r.sink.Append(fmt.Sprintf("[%s] Updated %d products", ts, result.UpdatedCount))
		for _, p := range result.UpdatedProducts {
			r.sink.Append(fmt.Sprintf("[%s] Product: %s (SKU: %s) - New stock: %d", ts, p.Name, p.SKU, p.Stock))
		}
	} else {
		r.sink.Append("[" + ts + "] ERROR: " + result.Message)
	}
	r.sink.Append("[" + ts + "] Low stock update job completed")
}
