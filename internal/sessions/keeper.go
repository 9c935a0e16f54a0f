package sessions

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/hikconnect-io/hikconnect/internal/models"
	"github.com/sirupsen/logrus"
)

var DefaultCheckInterval = 5 * time.Minute

// Refresher is the part of hikconnect.Client the keeper drives.
type Refresher interface {
	NeedsRefresh(now time.Time) bool
	Refresh(ctx context.Context) error
}

// Keeper refreshes a session ahead of expiry. It checks on a fixed
// interval and refreshes only when the session reports it is due, so a
// long interval is fine as long as it stays well below the refresh margin.
type Keeper struct {
	lock      sync.Mutex
	refresher Refresher
	interval  time.Duration
	scheduler *gocron.Scheduler
	stopOnce  sync.Once
	stopped   chan struct{}
	released  chan struct{}
	now       func() time.Time

	refreshes int
	lastError error
}

func NewKeeper(refresher Refresher, interval time.Duration) *Keeper {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	return &Keeper{
		refresher: refresher,
		interval:  interval,
		stopped:   make(chan struct{}),
		released:  make(chan struct{}),
		now:       time.Now,
	}
}

// Start schedules the check, running it once immediately. The keeper stops
// when ctx is cancelled or Stop is called.
func (k *Keeper) Start(ctx context.Context) error {

	k.lock.Lock()
	defer k.lock.Unlock()

	if k.scheduler != nil {
		return errors.New("session keeper already started")
	}

	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	_, err := scheduler.Every(k.interval).Do(func() {
		_ = k.Check(ctx)
	})
	if err != nil {
		return err
	}

	scheduler.StartAsync()
	k.scheduler = scheduler

	logrus.WithField("interval", k.interval).Debugln("Started session keeper")

	go func() {
		defer close(k.released)
		select {
		case <-ctx.Done():
			k.Stop()
		case <-k.stopped:
		}
	}()

	return nil
}

func (k *Keeper) Stop() {
	k.lock.Lock()
	scheduler := k.scheduler
	k.lock.Unlock()

	if scheduler == nil {
		return
	}

	// Stop waits for a running check, which takes k.lock itself.
	k.stopOnce.Do(func() {
		close(k.stopped)
		scheduler.Stop()
		logrus.Debugln("Stopped session keeper")
	})
}

// Check refreshes the session if it is due. Failures are recorded and
// returned but not retried until the next check.
func (k *Keeper) Check(ctx context.Context) error {

	if !k.refresher.NeedsRefresh(k.now()) {
		return nil
	}

	err := k.refresher.Refresh(ctx)

	k.lock.Lock()
	k.lastError = err
	if err == nil {
		k.refreshes++
	}
	k.lock.Unlock()

	switch {
	case err == nil:
		logrus.Infoln("Session refreshed")
	case errors.Is(err, models.ErrNotLoggedIn):
		logrus.Warnln("Session keeper has no session to refresh")
	default:
		logrus.WithError(err).Errorln("Failed to refresh session")
	}

	return err
}

func (k *Keeper) Refreshes() int {
	k.lock.Lock()
	defer k.lock.Unlock()
	return k.refreshes
}

func (k *Keeper) LastError() error {
	k.lock.Lock()
	defer k.lock.Unlock()
	return k.lastError
}
