package services

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/wenlng/go-captcha/v2/rotate"
	xdraw "golang.org/x/image/draw"
)

// CaptchaService guards the admin login with a rotate captcha.
//
// Generate returns a challenge ID and two base64 images (master and thumb); the client
// rotates the thumb and submits the angle with the ID. A challenge is consumed by its
// first verification attempt whatever the outcome.
type CaptchaService interface {
	GenerateRotate(ctx context.Context) (*RotateChallenge, error)
	VerifyRotate(ctx context.Context, challengeID string, userAngle float64) bool
}

type RotateChallenge struct {
	ID                string
	MasterImageBase64 string
	ThumbImageBase64  string
}

// ChallengeStore keeps target angles between generate and verify
type ChallengeStore interface {
	Put(ctx context.Context, id string, angle int, ttl time.Duration) error
	// Take returns and removes the stored angle
	Take(ctx context.Context, id string) (int, bool)
}

type captchaServiceImpl struct {
	rotator rotate.Captcha
	store   ChallengeStore
	ttl     time.Duration
	padding int
}

// NewCaptchaServiceRotate constructs a CaptchaService using rotate mode.
// padding is the accepted angle difference in degrees.
func NewCaptchaServiceRotate(store ChallengeStore, ttl time.Duration, padding int, imgSizePx int) CaptchaService {
	if imgSizePx <= 0 {
		imgSizePx = 220
	}
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}

	builder := rotate.NewBuilder(
		rotate.WithImageSquareSize(imgSizePx),
	)
	builder.SetResources(
		rotate.WithImages(generateRotateBackgrounds(3, imgSizePx)),
	)

	return &captchaServiceImpl{
		rotator: builder.Make(),
		store:   store,
		ttl:     ttl,
		padding: padding,
	}
}

func (s *captchaServiceImpl) GenerateRotate(ctx context.Context) (*RotateChallenge, error) {
	captData, err := s.rotator.Generate()
	if err != nil {
		return nil, err
	}

	block := captData.GetData()
	if block == nil {
		return nil, errors.New("captcha generator returned no data")
	}

	masterB64, err := captData.GetMasterImage().ToBase64()
	if err != nil {
		return nil, err
	}
	thumbB64, err := captData.GetThumbImage().ToBase64()
	if err != nil {
		return nil, err
	}

	challengeID := uuid.New().String()
	if err := s.store.Put(ctx, challengeID, block.Angle, s.ttl); err != nil {
		return nil, err
	}

	return &RotateChallenge{
		ID:                challengeID,
		MasterImageBase64: masterB64,
		ThumbImageBase64:  thumbB64,
	}, nil
}

func (s *captchaServiceImpl) VerifyRotate(ctx context.Context, challengeID string, userAngle float64) bool {
	target, ok := s.store.Take(ctx, challengeID)
	if !ok {
		return false
	}
	return rotate.Validate(int(math.Round(userAngle)), target, s.padding)
}

// MemoryChallengeStore is a process-local ChallengeStore
type MemoryChallengeStore struct {
	mu sync.Mutex
	m  map[string]memoryChallenge
}

type memoryChallenge struct {
	angle     int
	expiresAt time.Time
}

func NewMemoryChallengeStore() *MemoryChallengeStore {
	return &MemoryChallengeStore{m: make(map[string]memoryChallenge)}
}

func (s *MemoryChallengeStore) Put(_ context.Context, id string, angle int, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for k, v := range s.m {
		if now.After(v.expiresAt) {
			delete(s.m, k)
		}
	}
	s.m[id] = memoryChallenge{angle: angle, expiresAt: now.Add(ttl)}
	return nil
}

func (s *MemoryChallengeStore) Take(_ context.Context, id string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[id]
	if !ok {
		return 0, false
	}
	delete(s.m, id)
	if time.Now().After(e.expiresAt) {
		return 0, false
	}
	return e.angle, true
}

// RedisChallengeStore shares challenges across API replicas
type RedisChallengeStore struct {
	client *redis.Client
}

func NewRedisChallengeStore(client *redis.Client) *RedisChallengeStore {
	return &RedisChallengeStore{client: client}
}

func captchaKey(id string) string { return "efine:captcha:" + id }

func (s *RedisChallengeStore) Put(ctx context.Context, id string, angle int, ttl time.Duration) error {
	return s.client.Set(ctx, captchaKey(id), angle, ttl).Err()
}

func (s *RedisChallengeStore) Take(ctx context.Context, id string) (int, bool) {
	val, err := s.client.GetDel(ctx, captchaKey(id)).Result()
	if err != nil {
		return 0, false
	}
	angle, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return angle, true
}

func generateRotateBackgrounds(n int, size int) []image.Image {
	if n <= 0 {
		n = 1
	}
	imgs := make([]image.Image, 0, n)
	for i := 0; i < n; i++ {
		imgs = append(imgs, newNoiseGradientImage(size, size))
	}
	return imgs
}

// newNoiseGradientImage paints a radial gradient on a quarter-size tile and upscales it to w x h
func newNoiseGradientImage(w, h int) image.Image {
	tw, th := max(w/4, 1), max(h/4, 1)
	tile := image.NewRGBA(image.Rect(0, 0, tw, th))
	for y := 0; y < th; y++ {
		for x := 0; x < tw; x++ {
			dx := float64(x - tw/2)
			dy := float64(y - th/2)
			t := math.Min(math.Sqrt(dx*dx+dy*dy)/math.Max(float64(tw/2), 1), 1)
			base := uint8(200 - int(150*t))
			noise := uint8(rand.Intn(30))
			tile.Set(x, y, color.RGBA{R: base / 3, G: base/2 + noise, B: 255 - base/3, A: 255})
		}
	}

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(rgba, rgba.Bounds(), tile, tile.Bounds(), xdraw.Src, nil)

	stripe := image.Rect(w/4, h/2, w/4+w/2, h/2+h/12)
	draw.Draw(rgba, stripe, &image.Uniform{C: color.RGBA{R: 255, G: 255, B: 255, A: 40}}, image.Point{}, draw.Over)
	return rgba
}
