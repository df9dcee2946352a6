package workers

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/escolaranieri/galeriabackend/media"
	"github.com/escolaranieri/galeriabackend/repository"
	"github.com/escolaranieri/galeriabackend/utils"
)

// ThumbnailJob identifies one gallery image whose thumbnail is missing or
// stale. jobs are keyed by image id; the worker loads everything else.
type ThumbnailJob struct {
	ImageID uint
}

type ThumbnailGenerator struct {
	JobQueue  chan ThumbnailJob
	ImageRepo repository.ImageRepository
	Store     media.Store
	Processor *media.Processor
	MaxSize   int
	Wg        sync.WaitGroup
	StopChan  chan struct{}
	Pending   map[uint]bool
	Mutex     sync.Mutex
}

func NewThumbnailGenerator(imageRepo repository.ImageRepository, store media.Store, maxSize, queueSize, numWorkers int) *ThumbnailGenerator {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}

	gen := &ThumbnailGenerator{
		JobQueue:  make(chan ThumbnailJob, queueSize),
		ImageRepo: imageRepo,
		Store:     store,
		Processor: media.NewProcessor(store),
		MaxSize:   maxSize,
		StopChan:  make(chan struct{}),
		Pending:   make(map[uint]bool),
	}

	gen.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go gen.worker(i)
	}
	log.Printf("started %d thumbnail worker(s) with queue size %d", numWorkers, queueSize)

	return gen
}

func (tg *ThumbnailGenerator) worker(id int) {
	defer tg.Wg.Done()
	log.Printf("thumbnail worker %d started", id)
	for {
		select {
		case job, ok := <-tg.JobQueue:
			if !ok {
				log.Printf("thumbnail worker %d stopping: job queue closed", id)
				return
			}
			tg.processJob(job)
			tg.Mutex.Lock()
			delete(tg.Pending, job.ImageID)
			tg.Mutex.Unlock()

		case <-tg.StopChan:
			log.Printf("thumbnail worker %d stopping: stop signal received", id)
			return
		}
	}
}

func (tg *ThumbnailGenerator) processJob(job ThumbnailJob) {
	img, err := tg.ImageRepo.GetByID(job.ImageID)
	if err != nil {
		log.Printf("thumbnail job for image %d skipped: %v", job.ImageID, err)
		return
	}

	if err := tg.ImageRepo.MarkThumbnailProcessing(img.ID); err != nil {
		log.Printf("ERROR marking image %d as processing: %v", img.ID, err)
		return
	}

	fullPath, err := tg.Store.GetFullPath(img.OriginalPath)
	if err == nil {
		if _, statErr := os.Stat(fullPath); os.IsNotExist(statErr) {
			err = fmt.Errorf("original file %s not found", img.OriginalPath)
		}
	}

	var thumbPath *string
	if err == nil {
		srcImg, openErr := imaging.Open(fullPath)
		if openErr != nil {
			err = fmt.Errorf("failed to open original %s: %w", img.OriginalPath, openErr)
		} else {
			savedRelPath, genErr := tg.Processor.GenerateThumbnail(srcImg, img.OriginalPath, tg.MaxSize)
			if genErr != nil {
				err = genErr
			} else {
				thumbPath = &savedRelPath
			}
		}
	}

	var width, height *int
	var takenAt *int64
	if err == nil {
		meta, metaErr := utils.GetImageMetadata(fullPath)
		if metaErr != nil {
			err = metaErr
		} else if meta != nil {
			width = meta.Width
			height = meta.Height
			takenAt = meta.TakenAt
		}
	}

	if dbErr := tg.ImageRepo.SetThumbnailResult(img.ID, thumbPath, width, height, takenAt, err); dbErr != nil {
		log.Printf("ERROR updating thumbnail record for image %d: %v", img.ID, dbErr)
		return
	}

	if err != nil {
		log.Printf("ERROR generating thumbnail for image %d (%s): %v", img.ID, img.OriginalPath, err)
		return
	}
	log.Printf("generated thumbnail for image %d (%s)", img.ID, img.OriginalPath)
}

// QueueJob enqueues thumbnail generation for an image unless one is already
// pending. returns false when the job was dropped (duplicate or full queue).
func (tg *ThumbnailGenerator) QueueJob(job ThumbnailJob) bool {
	tg.Mutex.Lock()
	if tg.Pending[job.ImageID] {
		tg.Mutex.Unlock()
		return false
	}

	tg.Pending[job.ImageID] = true
	tg.Mutex.Unlock()

	select {
	case tg.JobQueue <- job:
		return true
	default:
		log.Printf("WARNING: thumbnail job queue full, failed to queue image %d", job.ImageID)
		tg.Mutex.Lock()
		delete(tg.Pending, job.ImageID)
		tg.Mutex.Unlock()
		return false
	}
}

// RequeuePending scans for images whose thumbnails never completed (pending
// or stuck in processing after a crash) and queues them again.
func (tg *ThumbnailGenerator) RequeuePending() {
	images, err := tg.ImageRepo.GetImagesRequiringProcessing()
	if err != nil {
		log.Printf("ERROR listing images requiring thumbnail processing: %v", err)
		return
	}
	for _, img := range images {
		tg.QueueJob(ThumbnailJob{ImageID: img.ID})
	}
	if len(images) > 0 {
		log.Printf("requeued %d image(s) for thumbnail processing", len(images))
	}
}

func (tg *ThumbnailGenerator) Stop() {
	log.Println("stopping thumbnail generator...")
	close(tg.StopChan)
	tg.Wg.Wait()
	log.Println("all thumbnail workers stopped")
}
