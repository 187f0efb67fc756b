package media

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"sync/atomic"
	"testing"
	"time"

	"memberportal/services/storage"

	qt "github.com/frankban/quicktest"
)

func pngOf(c *qt.C, w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 7 {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	c.Assert(png.Encode(&buf, img), qt.IsNil)
	return buf.Bytes()
}

func TestPreprocessDownscalesWideImage(t *testing.T) {
	c := qt.New(t)
	out, w, h, err := Preprocess(pngOf(c, 3000, 1500))
	c.Assert(err, qt.IsNil)
	c.Assert(w, qt.Equals, 1200)
	c.Assert(h, qt.Equals, 600)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	c.Assert(err, qt.IsNil)
	c.Assert(format, qt.Equals, "jpeg")
	c.Assert(cfg.Width, qt.Equals, 1200)
	c.Assert(cfg.Height, qt.Equals, 600)
}

func TestPreprocessNeverUpscales(t *testing.T) {
	c := qt.New(t)
	_, w, h, err := Preprocess(pngOf(c, 400, 300))
	c.Assert(err, qt.IsNil)
	c.Assert(w, qt.Equals, 400)
	c.Assert(h, qt.Equals, 300)
}

func TestPreprocessTallImage(t *testing.T) {
	c := qt.New(t)
	_, w, h, err := Preprocess(pngOf(c, 900, 2400))
	c.Assert(err, qt.IsNil)
	c.Assert(w, qt.Equals, 450)
	c.Assert(h, qt.Equals, 1200)
}

func TestPreprocessReencodesJPEG(t *testing.T) {
	c := qt.New(t)
	var buf bytes.Buffer
	c.Assert(jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 64, 32)), nil), qt.IsNil)
	_, w, h, err := Preprocess(buf.Bytes())
	c.Assert(err, qt.IsNil)
	c.Assert([]int{w, h}, qt.DeepEquals, []int{64, 32})
}

func TestPreprocessRejectsGarbage(t *testing.T) {
	c := qt.New(t)
	_, _, _, err := Preprocess([]byte("definitely not an image"))
	c.Assert(err, qt.ErrorIs, ErrUnsupported)

	_, _, _, err = Preprocess(nil)
	c.Assert(err, qt.ErrorIs, ErrEmptyImage)
}

// withDimensions rewrites the IHDR chunk of a PNG to claim w×h pixels.
func withDimensions(raw []byte, w, h uint32) []byte {
	out := append([]byte(nil), raw...)
	// 8-byte signature, 4-byte length, "IHDR", then width and height.
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func TestPreprocessRefusesHugeDimensionsBeforeDecoding(t *testing.T) {
	c := qt.New(t)
	bomb := withDimensions(pngOf(c, 8, 8), 50_000, 50_000)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(bomb))
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Width, qt.Equals, 50_000)

	_, _, _, err = Preprocess(bomb)
	c.Assert(err, qt.ErrorIs, ErrTooLarge)
}

// slowStore records how many puts run at once.
type slowStore struct {
	*storage.MemoryStore
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (s *slowStore) Put(ctx context.Context, folder, name, contentType string, data []byte) (storage.Object, error) {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	return s.MemoryStore.Put(ctx, folder, name, contentType, data)
}

func collect(ch <-chan Result) map[int]Result {
	out := make(map[int]Result)
	for r := range ch {
		out[r.Index] = r
	}
	return out
}

func TestUploadBatchRespectsConcurrencyCap(t *testing.T) {
	c := qt.New(t)
	store := &slowStore{MemoryStore: storage.NewMemoryStore("mem://")}
	up := NewUploader(store, 3)

	var files []File
	for i := 0; i < 12; i++ {
		files = append(files, File{Name: "photo.png", Data: pngOf(c, 40, 30)})
	}
	results := collect(up.UploadBatch(context.Background(), files))

	c.Assert(results, qt.HasLen, 12)
	for i := 0; i < 12; i++ {
		c.Assert(results[i].Err, qt.IsNil)
		c.Assert(results[i].URL, qt.Not(qt.Equals), "")
	}
	c.Assert(store.peak.Load() <= 3, qt.IsTrue, qt.Commentf("peak %d", store.peak.Load()))
	c.Assert(store.Len(), qt.Equals, 12)
}

func TestUploadBatchKeepsSuccessesOnPartialFailure(t *testing.T) {
	c := qt.New(t)
	store := storage.NewMemoryStore("mem://")
	up := NewUploader(store, 2)

	files := []File{
		{Name: "a.png", Data: pngOf(c, 10, 10)},
		{Name: "broken.png", Data: []byte("nope")},
		{Name: "c.png", Data: pngOf(c, 10, 10)},
	}
	results := collect(up.UploadBatch(context.Background(), files))

	c.Assert(results[0].Err, qt.IsNil)
	c.Assert(results[1].Err, qt.ErrorIs, ErrUnsupported)
	c.Assert(results[1].Name, qt.Equals, "broken.png")
	c.Assert(results[2].Err, qt.IsNil)
	c.Assert(store.Len(), qt.Equals, 2)

	data, ct, ok := store.Get(results[0].PublicID)
	c.Assert(ok, qt.IsTrue)
	c.Assert(ct, qt.Equals, ContentType)
	c.Assert(len(data) > 0, qt.IsTrue)
}

func TestUploadBatchCancelledContext(t *testing.T) {
	c := qt.New(t)
	store := storage.NewMemoryStore("mem://")
	up := NewUploader(store, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := collect(up.UploadBatch(ctx, []File{
		{Name: "a.png", Data: pngOf(c, 10, 10)},
		{Name: "b.png", Data: pngOf(c, 10, 10)},
	}))

	c.Assert(results, qt.HasLen, 2)
	for _, r := range results {
		c.Assert(errors.Is(r.Err, context.Canceled), qt.IsTrue)
	}
	c.Assert(store.Len(), qt.Equals, 0)
}

func TestFitWithin(t *testing.T) {
	c := qt.New(t)
	w, h := FitWithin(1200, 1200, 1200)
	c.Assert([]int{w, h}, qt.DeepEquals, []int{1200, 1200})
	w, h = FitWithin(5000, 2, 1200)
	c.Assert([]int{w, h}, qt.DeepEquals, []int{1200, 1})
}
