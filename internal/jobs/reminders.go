package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/models"
	"github.com/D3konR3kon/alx-backend-graphql-crm/internal/repository"

	"go.uber.org/zap"
)

const (
	reminderWindow   = 7 * 24 * time.Hour
	reminderPageSize = 100
)

// OrderLister is the slice of the CRM service the reminders scan reads
// through.
type OrderLister interface {
	Orders(ctx context.Context, f repository.OrderListFilter) ([]models.Order, int64, error)
}

// OrderReminders scans orders placed within the last week and logs a
// reminder line per order for a downstream follow-up process.
type OrderReminders struct {
	svc  OrderLister
	sink *LogSink
	log  *zap.Logger
	now  func() time.Time
}

func NewOrderReminders(svc OrderLister, sink *LogSink, log *zap.Logger) *OrderReminders {
	return &OrderReminders{
		svc:  svc,
		sink: sink,
		log:  log,
		now:  time.Now,
	}
}

func (j *OrderReminders) Run(ctx context.Context) {
	ts := j.now().Format(reconcileTimestampLayout)
	since := j.now().Add(-reminderWindow)

	j.sink.Append("[" + ts + "] Order reminders check started")

	count := 0
	offset := 0
	for {
		orders, _, err := j.svc.Orders(ctx, repository.OrderListFilter{
			Since:  &since,
			Limit:  reminderPageSize,
			Offset: offset,
		})
		if err != nil {
			j.log.Error("order reminders scan failed", zap.Error(err))
			j.sink.Append("[" + ts + "] ERROR: " + err.Error())
			return
		}

		for _, ord := range orders {
			email := ""
			if ord.Customer != nil {
				email = ord.Customer.Email
			}
			j.sink.Append(fmt.Sprintf("[%s] Order ID: %s, Customer Email: %s", ts, ord.ID, email))
			count++
		}

		if len(orders) < reminderPageSize {
			break
		}
		offset += reminderPageSize
	}

	if count > 0 {
		j.sink.Append(fmt.Sprintf("[%s] Found %d recent orders requiring reminders", ts, count))
	} else {
		j.sink.Append("[" + ts + "] No recent orders found requiring reminders")
	}
	j.sink.Append("[" + ts + "] Order reminders check completed")
}
