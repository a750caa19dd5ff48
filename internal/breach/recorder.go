package breach

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Exporter ships sealed records off the device.
type Exporter interface {
	Export(ctx context.Context, rec Record) error
}

// Recorder seals evidence and appends it. Export is best-effort.
type Recorder struct {
	store    Store
	vault    *Vault
	exporter Exporter
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Recorder)

func WithExporter(e Exporter) Option {
	return func(r *Recorder) {
		r.exporter = e
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}

func WithNow(now func() time.Time) Option {
	return func(r *Recorder) {
		r.now = now
	}
}

func NewRecorder(store Store, vault *Vault, opts ...Option) (*Recorder, error) {
	if store == nil {
		return nil, fmt.Errorf("breach store is required")
	}
	if vault == nil {
		return nil, fmt.Errorf("vault is required")
	}
	r := &Recorder{store: store, vault: vault, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Record encrypts photo and video independently and appends them as one
// breach, returning the assigned id.
func (r *Recorder) Record(ctx context.Context, photo, video []byte) (int64, error) {
	sealedPhoto, err := r.vault.Seal(photo)
	if err != nil {
		return 0, fmt.Errorf("seal photo: %w", err)
	}
	sealedVideo, err := r.vault.Seal(video)
	if err != nil {
		return 0, fmt.Errorf("seal video: %w", err)
	}
	rec := Record{Timestamp: r.now().UTC(), Photo: sealedPhoto, Video: sealedVideo}
	id, err := r.store.Append(ctx, rec)
	if err != nil {
		return 0, err
	}
	rec.ID = id

	if r.exporter != nil {
		if err := r.exporter.Export(ctx, rec); err != nil {
			r.logger.WarnContext(ctx, "breach export failed", "breach_id", id, "error", err)
		}
	}
	return id, nil
}

func (r *Recorder) List(ctx context.Context) ([]Summary, error) {
	return r.store.List(ctx)
}

// Open decrypts a stored breach. It is not used by the listing path.
func (r *Recorder) Open(ctx context.Context, id int64) (photo, video []byte, err error) {
	rec, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if photo, err = r.vault.Open(rec.Photo); err != nil {
		return nil, nil, err
	}
	if video, err = r.vault.Open(rec.Video); err != nil {
		return nil, nil, err
	}
	return photo, video, nil
}
