package reconcile

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/rental-backend/internal/logger"
)

// cronLogger направляет внутренние сообщения cron в logrus.
type cronLogger struct {
	entry *logrus.Entry
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(toFields(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(toFields(keysAndValues)).WithError(err).Error(msg)
}

func toFields(keysAndValues []interface{}) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}

// Scheduler запускает сверку по расписанию cron. Пересекающиеся запуски пропускаются.
type Scheduler struct {
	cron       *cron.Cron
	reconciler *Reconciler
}

func NewScheduler(reconciler *Reconciler) *Scheduler {
	log := cronLogger{entry: logger.WithComponent("cron")}
	return &Scheduler{
		cron:       cron.New(cron.WithLogger(log), cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log))),
		reconciler: reconciler,
	}
}

// Start регистрирует задачу и запускает планировщик. Контекст передаётся каждому запуску.
func (s *Scheduler) Start(ctx context.Context, spec string) error {
	if _, err := s.cron.AddFunc(spec, func() {
		_, _ = s.reconciler.Run(ctx)
	}); err != nil {
		return fmt.Errorf("reconcile: неверное расписание %q: %w", spec, err)
	}
	s.cron.Start()
	return nil
}

// Stop останавливает планировщик и ждёт завершения текущего запуска.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
