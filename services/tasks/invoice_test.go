package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkwise/models"
)

type enqueued struct {
	task *asynq.Task
	opts []asynq.Option
}

type fakeClient struct {
	calls []enqueued
	ids   map[string]bool
}

func (c *fakeClient) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	for _, o := range opts {
		if o.Type() == asynq.TaskIDOpt {
			id := o.Value().(string)
			if c.ids[id] {
				return nil, asynq.ErrTaskIDConflict
			}
			if c.ids == nil {
				c.ids = map[string]bool{}
			}
			c.ids[id] = true
		}
	}
	c.calls = append(c.calls, enqueued{task, opts})
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

func option(opts []asynq.Option, typ asynq.OptionType) (interface{}, bool) {
	for _, o := range opts {
		if o.Type() == typ {
			return o.Value(), true
		}
	}
	return nil, false
}

func TestInvoiceIssued(t *testing.T) {
	client := &fakeClient{}
	s := NewInvoiceScheduler(client, nil)
	due := time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)
	inv := models.Invoice{ID: "inv-1", OwnerID: "user-1", DueAt: due}

	require.NoError(t, s.InvoiceIssued(context.Background(), inv))
	require.Len(t, client.calls, 2)

	assert.Equal(t, TypeInvoiceNotify, client.calls[0].task.Type())
	_, delayed := option(client.calls[0].opts, asynq.ProcessAtOpt)
	assert.False(t, delayed)

	overdue := client.calls[1]
	assert.Equal(t, TypeInvoiceOverdue, overdue.task.Type())
	at, ok := option(overdue.opts, asynq.ProcessAtOpt)
	require.True(t, ok)
	assert.True(t, due.Equal(at.(time.Time)))
	id, ok := option(overdue.opts, asynq.TaskIDOpt)
	require.True(t, ok)
	assert.Equal(t, "overdue:inv-1", id)

	p, err := ParsePayload(overdue.task)
	require.NoError(t, err)
	assert.Equal(t, "inv-1", p.InvoiceID)
	assert.Equal(t, "user-1", p.OwnerID)
	assert.True(t, due.Equal(p.DueAt))
}

func TestInvoiceIssued_DuplicateOverdueCheck(t *testing.T) {
	client := &fakeClient{}
	s := NewInvoiceScheduler(client, nil)
	inv := models.Invoice{ID: "inv-1", OwnerID: "user-1", DueAt: time.Now().Add(time.Hour)}

	require.NoError(t, s.InvoiceIssued(context.Background(), inv))
	require.NoError(t, s.InvoiceIssued(context.Background(), inv), "a second overdue check is ignored")
	assert.Len(t, client.calls, 3)
}

func TestParsePayload_Invalid(t *testing.T) {
	_, err := ParsePayload(asynq.NewTask(TypeInvoiceNotify, []byte("not json")))
	assert.Error(t, err)

	_, err = ParsePayload(asynq.NewTask(TypeInvoiceNotify, []byte(`{"ownerId":"u"}`)))
	assert.ErrorContains(t, err, "missing invoice id")
}
