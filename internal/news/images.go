package news

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/uksimracing/website/internal/asset"
	"github.com/uksimracing/website/internal/httphelper"
	"github.com/uksimracing/website/pkg/log"
)

var errImageStatus = errors.New("unexpected image response status")

// ImageResolver decides the image for an incoming article: the first
// attachment when present, otherwise the next entry of the rotation list.
type ImageResolver struct {
	store    asset.Store
	client   *http.Client
	rotation []string
	timeout  time.Duration
}

func NewImageResolver(store asset.Store, rotation []string, timeout time.Duration) ImageResolver {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return ImageResolver{
		store:    store,
		client:   httphelper.NewClient(),
		rotation: rotation,
		timeout:  timeout,
	}
}

// Resolve returns the remote image URL and, when caching succeeded, a local
// public path. articleCount drives the deterministic rotation fallback.
func (r ImageResolver) Resolve(ctx context.Context, messageID string, attachments []string, articleCount int64) (string, string) {
	if len(attachments) > 0 && attachments[0] != "" {
		remoteURL := attachments[0]

		localPath, errCache := r.cache(ctx, messageID, remoteURL)
		if errCache != nil {
			slog.Warn("Failed to cache article image, keeping remote URL",
				slog.String("url", remoteURL), log.ErrAttr(errCache))

			return remoteURL, ""
		}

		return remoteURL, localPath
	}

	if len(r.rotation) == 0 {
		return "", ""
	}

	idx := int(articleCount % int64(len(r.rotation)))
	if idx < 0 {
		idx = 0
	}

	return r.rotation[idx], ""
}

// cache downloads the attachment under a bounded timeout and stores it under
// a name hashed from the message id and wall clock, unique even on replays.
func (r ImageResolver) cache(ctx context.Context, messageID string, remoteURL string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, errReq := http.NewRequestWithContext(reqCtx, http.MethodGet, remoteURL, nil)
	if errReq != nil {
		return "", errors.Join(errReq, httphelper.ErrRequestCreate)
	}

	resp, errResp := r.client.Do(req)
	if errResp != nil {
		return "", errors.Join(errResp, httphelper.ErrRequestPerform)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %d", errImageStatus, resp.StatusCode)
	}

	digest := sha256.Sum256(fmt.Appendf(nil, "%s%d", messageID, time.Now().UnixNano()))
	name := hex.EncodeToString(digest[:16]) + asset.NormalizeExt(remoteURL)

	return r.store.Save(name, io.LimitReader(resp.Body, 20<<20))
}
