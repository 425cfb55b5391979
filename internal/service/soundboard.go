package service

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"time"

	"EchoBoard/internal/models"
	"EchoBoard/pkg/cache"
	"EchoBoard/pkg/errors"
	"EchoBoard/pkg/logger"
	"EchoBoard/pkg/metrics"
	"EchoBoard/pkg/search"
	stores "EchoBoard/pkg/storage"
	"EchoBoard/pkg/tts"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	audioExt          = ".mp3"
	audioContentType  = "audio/mpeg"
	audioCacheControl = "public, max-age=86400"

	// 存在性检查结果的缓存时间，容忍短暂的脏读
	existsCacheTTL = 30 * time.Second
)

// EnrichedSoundboard 列表返回项：记录本身加上对象是否仍在存储中
type EnrichedSoundboard struct {
	models.Soundboard
	FileExists bool `json:"fileExists"`
}

// ExistsOutcome 单条存在性检查的结果，失败被包含在内而不向上传播
type ExistsOutcome struct {
	Exists bool
	Err    error
}

// Degraded 检查是否因为存储故障而降级
func (o ExistsOutcome) Degraded() bool { return o.Err != nil }

// Soundboard 负责音频卡片的完整生命周期：
// 合成 -> 上传 -> 落库，以及带校验的列表与尽力而为的删除。
type Soundboard struct {
	db      *gorm.DB
	store   stores.Store
	synth   tts.Synthesizer
	cache   cache.Cache   // 可选，存在性检查的短期缓存
	index   search.Engine // 可选，标题/文本检索
	timeout time.Duration
}

func NewSoundboard(db *gorm.DB, store stores.Store, synth tts.Synthesizer) *Soundboard {
	return &Soundboard{
		db:      db,
		store:   store,
		synth:   synth,
		timeout: 15 * time.Second,
	}
}

// WithCache 启用存在性检查缓存
func (s *Soundboard) WithCache(c cache.Cache) *Soundboard {
	s.cache = c
	return s
}

// WithSearch 启用检索索引
func (s *Soundboard) WithSearch(idx search.Engine) *Soundboard {
	s.index = idx
	return s
}

// WithTimeout 设置外部调用超时
func (s *Soundboard) WithTimeout(d time.Duration) *Soundboard {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Create 合成文本并保存新的音频卡片。
// 合成和上传都成功之后才会写数据库行；任何一步失败都不会留下引用
// 不存在对象的行。上传成功但落库失败时，尽力删除刚上传的对象。
func (s *Soundboard) Create(ctx context.Context, title, text, email string) (*models.Soundboard, error) {
	title = strings.TrimSpace(title)
	text = strings.TrimSpace(text)
	email = strings.TrimSpace(email)
	if title == "" || text == "" || email == "" {
		return nil, errors.Validation("title, text and email are required")
	}

	synthCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	synthStart := time.Now()
	audio, err := s.synth.Synthesize(synthCtx, text)
	if m := metrics.Global(); m != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		m.RecordSynthesis(s.synth.Name(), status, time.Since(synthStart))
	}
	if err != nil {
		return nil, errors.Synthesis(err, "failed to synthesize speech")
	}

	fileName := uuid.New().String() + audioExt

	putCtx, cancelPut := context.WithTimeout(ctx, s.timeout)
	defer cancelPut()
	err = s.store.Write(putCtx, fileName, bytes.NewReader(audio), int64(len(audio)), stores.PutOptions{
		ContentType:  audioContentType,
		CacheControl: audioCacheControl,
	})
	if err != nil {
		return nil, errors.Storage(err, "failed to upload audio")
	}

	sb := &models.Soundboard{
		ID:             uuid.New().String(),
		Title:          title,
		Text:           text,
		AudioURL:       s.store.PublicURL(fileName),
		FileName:       fileName,
		CreatedByEmail: email,
	}
	if err := models.CreateSoundboard(s.db, sb); err != nil {
		// 补偿删除刚上传的对象，失败只记日志
		s.bestEffortDelete(ctx, fileName)
		return nil, errors.Persistence(err, "failed to save soundboard")
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, existsCacheKey(fileName), true, existsCacheTTL)
	}
	if s.index != nil {
		if err := s.index.Index(ctx, search.Doc{
			ID:        sb.ID,
			Title:     sb.Title,
			Text:      sb.Text,
			Email:     sb.CreatedByEmail,
			CreatedAt: sb.CreatedAt,
		}); err != nil {
			logger.Warn("soundboard index failed", zap.String("id", sb.ID), zap.Error(err))
		}
	}

	return sb, nil
}

// ListByOwner 按归属者列出记录并为每条附加 fileExists 标记。
// 没有任何记录时返回 not found；单条存在性检查失败只降级该条。
func (s *Soundboard) ListByOwner(ctx context.Context, email string) ([]EnrichedSoundboard, error) {
	boards, err := models.GetSoundboardsByEmail(s.db, email)
	if err != nil {
		return nil, errors.Persistence(err, "failed to load soundboards")
	}
	if len(boards) == 0 {
		return nil, errors.NotFound("no soundboards found for %s", email)
	}

	// 并发检查所有对象，响应顺序保持查询给出的 created_at 倒序
	outcomes := make([]ExistsOutcome, len(boards))
	var wg sync.WaitGroup
	for i := range boards {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i] = s.checkExists(ctx, boards[i].FileName)
		}(i)
	}
	wg.Wait()

	enriched := make([]EnrichedSoundboard, len(boards))
	for i, b := range boards {
		if outcomes[i].Degraded() {
			logger.Warn("existence check degraded",
				zap.String("fileName", b.FileName), zap.Error(outcomes[i].Err))
		}
		enriched[i] = EnrichedSoundboard{Soundboard: b, FileExists: outcomes[i].Exists}
	}
	return enriched, nil
}

// Search 在标题和文本上做全文检索，可选限定归属者
func (s *Soundboard) Search(ctx context.Context, keyword, email string, from, size int) (*search.Result, error) {
	if s.index == nil {
		return nil, errors.New("search is not enabled")
	}
	res, err := s.index.Search(ctx, search.Request{
		Keyword: keyword,
		Email:   email,
		From:    from,
		Size:    size,
	})
	if err != nil {
		return nil, errors.Wrap(err, "search failed")
	}
	return &res, nil
}

// Delete 删除记录。先尽力删除存储对象，失败不阻止行删除。
func (s *Soundboard) Delete(ctx context.Context, id string) error {
	sb, err := models.GetSoundboard(s.db, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.NotFound("soundboard %s not found", id)
		}
		return errors.Persistence(err, "failed to load soundboard")
	}

	s.bestEffortDelete(ctx, sb.FileName)

	if err := models.DeleteSoundboard(s.db, id); err != nil {
		return errors.Persistence(err, "failed to delete soundboard")
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, existsCacheKey(sb.FileName))
	}
	if s.index != nil {
		if err := s.index.Delete(ctx, id); err != nil {
			logger.Warn("soundboard index delete failed", zap.String("id", id), zap.Error(err))
		}
	}
	return nil
}

func (s *Soundboard) checkExists(ctx context.Context, fileName string) ExistsOutcome {
	if s.cache != nil {
		if v, ok := s.cache.Get(ctx, existsCacheKey(fileName)); ok {
			if exists, ok := v.(bool); ok {
				if m := metrics.Global(); m != nil {
					m.RecordCacheHit("exists")
				}
				return ExistsOutcome{Exists: exists}
			}
		}
		if m := metrics.Global(); m != nil {
			m.RecordCacheMiss("exists")
		}
	}

	checkCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	exists, err := s.store.Exists(checkCtx, fileName)
	if err != nil {
		return ExistsOutcome{Exists: false, Err: err}
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, existsCacheKey(fileName), exists, existsCacheTTL)
	}
	return ExistsOutcome{Exists: exists}
}

func (s *Soundboard) bestEffortDelete(ctx context.Context, fileName string) {
	delCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.store.Delete(delCtx, fileName); err != nil {
		logger.Warn("storage delete failed", zap.String("fileName", fileName), zap.Error(err))
	}
}

func existsCacheKey(fileName string) string {
	return "soundboard:exists:" + fileName
}
