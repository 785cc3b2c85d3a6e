package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/rental-backend/internal/domain/repository"
	"github.com/ignatzorin/rental-backend/internal/domain/service"
	"github.com/ignatzorin/rental-backend/internal/domain/valueobject"
	"github.com/ignatzorin/rental-backend/internal/logger"
	"github.com/ignatzorin/rental-backend/internal/metrics"
)

const batchSize = 100

const (
	KindEscrow     = "escrow"
	KindProperty   = "property"
	KindTrustScore = "trust_score"
)

// ScoreUpdater пересчитывает и сохраняет оценку доверия.
type ScoreUpdater interface {
	UpdateStoredScore(ctx context.Context, userID uuid.UUID) (*service.TrustScore, error)
}

// Report — число исправлений по видам за один проход.
type Report map[string]int

// Reconciler доводит до согласованного состояния то, что не успело обновиться
// после решения по заявке. Повторный запуск безопасен.
type Reconciler struct {
	applications repository.ApplicationRepository
	transactions repository.TransactionRepository
	properties   repository.PropertyRepository
	users        repository.UserRepository
	scores       ScoreUpdater
	now          func() time.Time
	log          *logrus.Entry
}

func NewReconciler(
	applications repository.ApplicationRepository,
	transactions repository.TransactionRepository,
	properties repository.PropertyRepository,
	users repository.UserRepository,
	scores ScoreUpdater,
) *Reconciler {
	return &Reconciler{
		applications: applications,
		transactions: transactions,
		properties:   properties,
		users:        users,
		scores:       scores,
		now:          func() time.Time { return time.Now().UTC() },
		log:          logger.WithComponent("reconcile"),
	}
}

// Run выполняет один проход. Ошибка одного шага не останавливает остальные.
func (r *Reconciler) Run(ctx context.Context) (Report, error) {
	started := time.Now()
	report := Report{}

	var errs []error
	if n, err := r.settleEscrows(ctx); err != nil {
		errs = append(errs, err)
	} else {
		report[KindEscrow] = n
	}
	if n, err := r.rentProperties(ctx); err != nil {
		errs = append(errs, err)
	} else {
		report[KindProperty] = n
	}
	if n, err := r.refreshStaleScores(ctx); err != nil {
		errs = append(errs, err)
	} else {
		report[KindTrustScore] = n
	}

	err := errors.Join(errs...)
	metrics.ReconciliationRun(time.Since(started), err == nil)
	for kind, n := range report {
		metrics.ReconciliationRepair(kind, n)
	}

	entry := r.log.WithFields(logrus.Fields{
		"escrow":      report[KindEscrow],
		"property":    report[KindProperty],
		"trust_score": report[KindTrustScore],
		"duration":    time.Since(started).String(),
	})
	if err != nil {
		entry.WithError(err).Error("сверка завершилась с ошибками")
	} else if report[KindEscrow]+report[KindProperty]+report[KindTrustScore] > 0 {
		entry.Info("сверка исправила расхождения")
	} else {
		entry.Debug("расхождений нет")
	}
	return report, err
}

func (r *Reconciler) settleEscrows(ctx context.Context) (int, error) {
	apps, err := r.applications.ListUnsettled(ctx, batchSize)
	if err != nil {
		return 0, err
	}

	fixed := 0
	for _, app := range apps {
		escrow, err := r.transactions.FindByApplicationID(ctx, app.ID)
		if err != nil {
			r.log.WithFields(logrus.Fields{"application_id": app.ID, "error": err}).Warn("эскроу не найден")
			continue
		}
		if err := escrow.Settle(app.Status, r.now()); err != nil {
			r.log.WithFields(logrus.Fields{"application_id": app.ID, "error": err}).Warn("эскроу нельзя закрыть")
			continue
		}
		if err := r.transactions.Settle(ctx, escrow); err != nil {
			if errors.Is(err, repository.ErrStatusConflict) {
				continue
			}
			return fixed, err
		}
		fixed++
		r.log.WithFields(logrus.Fields{
			"application_id": app.ID,
			"transaction_id": escrow.ID,
			"status":         escrow.Status,
		}).Info("эскроу закрыт сверкой")
	}
	return fixed, nil
}

func (r *Reconciler) rentProperties(ctx context.Context) (int, error) {
	apps, err := r.applications.ListApprovedNotRented(ctx, batchSize)
	if err != nil {
		return 0, err
	}

	fixed := 0
	for _, app := range apps {
		if err := r.properties.UpdateStatus(ctx, app.PropertyID, valueobject.PropertyStatusRented); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return fixed, err
		}
		fixed++
		r.log.WithFields(logrus.Fields{"application_id": app.ID, "property_id": app.PropertyID}).Info("объект отмечен сданным")
	}
	return fixed, nil
}

func (r *Reconciler) refreshStaleScores(ctx context.Context) (int, error) {
	ids, err := r.users.ListStaleTrustScores(ctx, batchSize)
	if err != nil {
		return 0, err
	}

	fixed := 0
	for _, id := range ids {
		if _, err := r.scores.UpdateStoredScore(ctx, id); err != nil {
			r.log.WithFields(logrus.Fields{"user_id": id, "error": err}).Warn("оценка всё ещё не пересчитана")
			continue
		}
		fixed++
	}
	return fixed, nil
}
