package retry

import (
	"context"
	"errors"
	"testing"

	"roomly/pkg/kafka"
	"roomly/pkg/logger"
	"roomly/pkg/model"
)

type mockAppender struct {
	appended []model.CancelRecord
	err      error
}

func (m *mockAppender) Append(_ context.Context, rec model.CancelRecord) error {
	if m.err != nil {
		return m.err
	}
	m.appended = append(m.appended, rec)
	return nil
}

func message(t *testing.T, value any) kafka.Message {
	t.Helper()
	msg, err := kafka.NewMessage().WithKey("alice").WithValue(value).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return msg
}

func TestHandler(t *testing.T) {
	valid := model.CancelRecord{ID: "r1", TargetUserID: "alice"}

	tests := []struct {
		name      string
		msg       func(t *testing.T) kafka.Message
		appendErr error
		wantType  kafka.ErrorType
		wantOK    bool
	}{
		{"valid record", func(t *testing.T) kafka.Message { return message(t, valid) }, nil, 0, true},
		{"store failure is transient", func(t *testing.T) kafka.Message { return message(t, valid) }, errors.New("timeout"), kafka.ErrorTypeTransient, false},
		{"missing id is permanent", func(t *testing.T) kafka.Message { return message(t, model.CancelRecord{TargetUserID: "alice"}) }, nil, kafka.ErrorTypePermanent, false},
		{"garbage is permanent", func(t *testing.T) kafka.Message { return kafka.Message{Value: []byte("{")} }, nil, kafka.ErrorTypePermanent, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appender := &mockAppender{err: tt.appendErr}
			err := NewHandler(appender, logger.Discard())(context.Background(), tt.msg(t))
			if tt.wantOK {
				if err != nil {
					t.Fatalf("handler error = %v", err)
				}
				if len(appender.appended) != 1 || appender.appended[0].ID != "r1" {
					t.Errorf("appended = %+v", appender.appended)
				}
				return
			}
			if got := kafka.ClassifyError(err); got != tt.wantType {
				t.Errorf("ClassifyError() = %v, want %v", got, tt.wantType)
			}
		})
	}
}
