package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/MEERAN2314/socialtab/debt"
	"github.com/MEERAN2314/socialtab/notification"
	"github.com/MEERAN2314/socialtab/notify"
	"github.com/MEERAN2314/socialtab/user"
)

const (
	// OpenDebtsLimit caps each side of the my-debts listing.
	OpenDebtsLimit = 100
	// HistoryLimit caps the history listing.
	HistoryLimit = 50
	// NotificationsLimit caps the notifications listing.
	NotificationsLimit = 50
)

type Config struct {
	TokenSecret      string        `env:"TOKEN_SECRET,required" json:"-"`
	TokenExpiry      time.Duration `env:"TOKEN_EXPIRY" envDefault:"168h"` // 7 days
	ReminderInterval time.Duration `env:"DEBT_REMINDER_INTERVAL" envDefault:"3h"`
	RemindAfter      time.Duration `env:"DEBT_REMIND_AFTER" envDefault:"72h"`
}

var debtTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "socialtab_debt_transitions_total",
	Help: "Debt lifecycle transitions applied, by action.",
}, []string{"action"})

type Service struct {
	cfg               Config
	logger            *zap.Logger
	userStore         user.Store
	debtStore         debt.Store
	notificationStore notification.Store
	notifier          notify.Sink
}

func New(cfg Config, logger *zap.Logger, userStore user.Store, debtStore debt.Store, notificationStore notification.Store, notifier notify.Sink) *Service {
	if notifier == nil {
		notifier = notify.NewStoreSink(notificationStore)
	}
	return &Service{
		cfg:               cfg,
		logger:            logger,
		userStore:         userStore,
		debtStore:         debtStore,
		notificationStore: notificationStore,
		notifier:          notifier,
	}
}

// TokenExpiry is exposed for the transport layer to size cookie
// lifetimes.
func (s *Service) TokenExpiry() time.Duration {
	return s.cfg.TokenExpiry
}
