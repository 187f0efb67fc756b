package media

import (
	"context"
	"fmt"

	"memberportal/services/storage"
	"memberportal/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultFolder = "gallery"

// File is one upload as received from the client.
type File struct {
	Name string
	Data []byte
}

// Result reports the outcome for the input at Index.
type Result struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	URL      string `json:"url,omitempty"`
	PublicID string `json:"publicId,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Err      error  `json:"-"`
}

// Uploader preprocesses and stores batches with a bounded number of workers.
type Uploader struct {
	store  storage.BlobStore
	folder string
	limit  int
}

func NewUploader(store storage.BlobStore, limit int) *Uploader {
	if limit <= 0 {
		limit = 4
	}
	return &Uploader{store: store, folder: DefaultFolder, limit: limit}
}

func (u *Uploader) Limit() int {
	return u.limit
}

// UploadBatch emits exactly one Result per file and closes the channel when done.
// Stored files are not rolled back when others fail. Once ctx is done no new
// file is started; the rest report ctx.Err().
func (u *Uploader) UploadBatch(ctx context.Context, files []File) <-chan Result {
	results := make(chan Result, len(files))

	go func() {
		defer close(results)

		var g errgroup.Group
		g.SetLimit(u.limit)
		for i, f := range files {
			if err := ctx.Err(); err != nil {
				results <- Result{Index: i, Name: f.Name, Err: err}
				continue
			}
			g.Go(func() error {
				results <- u.uploadOne(ctx, i, f)
				return nil
			})
		}
		_ = g.Wait()
	}()

	return results
}

func (u *Uploader) uploadOne(ctx context.Context, index int, f File) Result {
	res := Result{Index: index, Name: f.Name}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	data, w, h, err := Preprocess(f.Data)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", f.Name, err)
		return res
	}

	obj, err := u.store.Put(ctx, u.folder, utils.NewID()+".jpg", ContentType, data)
	if err != nil {
		utils.GetLogger().Error("Gallery upload failed", zap.String("file", f.Name), zap.Error(err))
		res.Err = fmt.Errorf("%s: %w", f.Name, err)
		return res
	}

	res.URL, res.PublicID, res.Width, res.Height = obj.URL, obj.PublicID, w, h
	return res
}
