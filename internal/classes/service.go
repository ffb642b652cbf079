package classes

import (
	"context"
	"regexp"
	"strconv"

	"github.com/cillii/catalog-backend/pkg/db"
	"github.com/cillii/catalog-backend/pkg/db/models"
	pkgerrors "github.com/cillii/catalog-backend/pkg/errors"
	"github.com/cillii/catalog-backend/pkg/logger"
)

// VideoStore abstracts the uploaded-video file store so tests can substitute
// an in-memory fake.
type VideoStore interface {
	// Remove deletes the file behind a public path. Unknown or non-local
	// paths are a no-op.
	Remove(publicPath string) error
	// RemoveMany deletes a batch of files, collecting errors.
	RemoveMany(publicPaths []string) error
	// IsLocal reports whether the path references a file this store owns.
	IsLocal(publicPath string) bool
}

// Service implements the admin and catalog operations over classes.
type Service struct {
	repo   *Repository
	videos VideoStore
	logg   *logger.Logger
}

func NewService(repo *Repository, videos VideoStore, logg *logger.Logger) *Service {
	return &Service{repo: repo, videos: videos, logg: logg}
}

// Repo exposes the repository for collaborators that only need lookups.
func (s *Service) Repo() *Repository {
	return s.repo
}

// List returns catalog rows matching the filters.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]ClassDTO, error) {
	rows, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "listing classes")
	}
	return NewClassDTOs(rows), nil
}

var numericIdentifier = regexp.MustCompile(`^\d+$`)

// Get resolves an identifier that is either the internal numeric id or the
// human-readable special id.
func (s *Service) Get(ctx context.Context, identifier string) (ClassDTO, error) {
	var (
		class *models.Class
		err   error
	)
	if numericIdentifier.MatchString(identifier) {
		var id int64
		id, err = strconv.ParseInt(identifier, 10, 64)
		if err == nil {
			class, err = s.repo.FindByID(ctx, id)
		}
	} else {
		class, err = s.repo.FindBySpecialID(ctx, identifier)
	}
	if IsNotFound(err) {
		return ClassDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "class not found")
	}
	if err != nil {
		return ClassDTO{}, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading class")
	}
	return NewClassDTO(class), nil
}

// Create inserts a new class. uploadedVideo is the public path of a freshly
// stored upload, which wins over any video URL in the payload; on a failed
// insert the uploaded file is removed again.
func (s *Service) Create(ctx context.Context, payload Payload, uploadedVideo *string) (ClassDTO, error) {
	patch, err := Normalize(payload)
	if err != nil {
		s.discardUpload(ctx, uploadedVideo)
		return ClassDTO{}, err
	}

	specialID := ""
	if patch.SpecialID != nil {
		specialID = *patch.SpecialID
	} else {
		specialID, err = s.NextSpecialID(ctx, DefaultSpecialIDPrefix)
		if err != nil {
			s.discardUpload(ctx, uploadedVideo)
			return ClassDTO{}, err
		}
	}

	class := models.Class{
		SpecialID:     specialID,
		MainCategory:  deref(patch.MainCategory),
		Quality:       deref(patch.Quality),
		ClassName:     deref(patch.ClassName),
		ClassNameAr:   patch.ClassNameArabic.Ptr(),
		ClassNameEn:   patch.ClassNameEnglish.Ptr(),
		ClassFeatures: patch.ClassFeatures.Ptr(),
		ClassPrice:    patch.ClassPrice,
		ClassWeight:   patch.ClassWeight,
		ClassQuantity: patch.ClassQuantity,
	}

	switch {
	case uploadedVideo != nil:
		class.ClassVideo = uploadedVideo
	case patch.VideoAction == VideoReplace:
		url := patch.VideoURL
		class.ClassVideo = &url
	}

	if err := s.repo.Create(ctx, &class); err != nil {
		s.discardUpload(ctx, uploadedVideo)
		if db.IsUniqueViolation(err, "special_id") {
			return ClassDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "special id already exists").
				WithDetails(map[string]string{"specialId": specialID})
		}
		return ClassDTO{}, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "creating class")
	}
	return NewClassDTO(&class), nil
}

// Update patches an existing class. Video handling follows the admin form
// contract: a fresh upload always replaces, otherwise the payload's video
// directive decides, and a replaced or removed locally-stored file is
// unlinked best-effort once the row is saved.
func (s *Service) Update(ctx context.Context, id int64, payload Payload, uploadedVideo *string) (ClassDTO, error) {
	current, err := s.repo.FindByID(ctx, id)
	if IsNotFound(err) {
		s.discardUpload(ctx, uploadedVideo)
		return ClassDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "class not found")
	}
	if err != nil {
		s.discardUpload(ctx, uploadedVideo)
		return ClassDTO{}, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading class for update")
	}

	patch, err := Normalize(payload)
	if err != nil {
		s.discardUpload(ctx, uploadedVideo)
		return ClassDTO{}, err
	}

	previousVideo := current.ClassVideo
	ApplyPatch(current, patch)

	switch {
	case uploadedVideo != nil:
		current.ClassVideo = uploadedVideo
	case patch.VideoAction == VideoRemove:
		current.ClassVideo = nil
	case patch.VideoAction == VideoReplace:
		url := patch.VideoURL
		current.ClassVideo = &url
	}

	if err := s.repo.Save(ctx, current); err != nil {
		s.discardUpload(ctx, uploadedVideo)
		if db.IsUniqueViolation(err, "special_id") {
			return ClassDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "special id already exists")
		}
		return ClassDTO{}, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "updating class")
	}

	s.removeReplacedVideo(ctx, previousVideo, current.ClassVideo)
	return NewClassDTO(current), nil
}

// Delete removes a class and, when it owned a locally-stored video, unlinks
// the file best-effort.
func (s *Service) Delete(ctx context.Context, id int64) error {
	current, err := s.repo.FindByID(ctx, id)
	if IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "class not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading class for delete")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "deleting class")
	}

	if current.ClassVideo != nil && s.videos.IsLocal(*current.ClassVideo) {
		if err := s.videos.Remove(*current.ClassVideo); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "video", *current.ClassVideo), "failed to unlink class video")
		}
	}
	return nil
}

// DeleteAll purges the catalog and every locally-stored video.
func (s *Service) DeleteAll(ctx context.Context) (int64, error) {
	videos, err := s.repo.ListVideos(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "listing videos for purge")
	}

	deleted, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "purging classes")
	}

	local := videos[:0]
	for _, video := range videos {
		if s.videos.IsLocal(video) {
			local = append(local, video)
		}
	}
	if err := s.videos.RemoveMany(local); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "failed to unlink some class videos")
	}
	return deleted, nil
}

// ApplyPatch copies every determined field of the patch onto the model. The
// video reference is deliberately left alone; callers decide that separately
// because the rules differ between the admin form and bulk imports.
func ApplyPatch(class *models.Class, patch Patch) {
	if patch.SpecialID != nil {
		class.SpecialID = *patch.SpecialID
	}
	if patch.MainCategory != nil {
		class.MainCategory = *patch.MainCategory
	}
	if patch.Quality != nil {
		class.Quality = *patch.Quality
	}
	if patch.ClassName != nil {
		class.ClassName = *patch.ClassName
	}
	if patch.ClassNameArabic.Set {
		class.ClassNameAr = patch.ClassNameArabic.Ptr()
	}
	if patch.ClassNameEnglish.Set {
		class.ClassNameEn = patch.ClassNameEnglish.Ptr()
	}
	if patch.ClassFeatures.Set {
		class.ClassFeatures = patch.ClassFeatures.Ptr()
	}
	// Numeric fields are always determined by the normalizer; nil clears.
	class.ClassPrice = patch.ClassPrice
	class.ClassWeight = patch.ClassWeight
	class.ClassQuantity = patch.ClassQuantity
}

func (s *Service) removeReplacedVideo(ctx context.Context, previous, next *string) {
	if previous == nil || !s.videos.IsLocal(*previous) {
		return
	}
	if next != nil && *next == *previous {
		return
	}
	if err := s.videos.Remove(*previous); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "video", *previous), "failed to unlink replaced class video")
	}
}

func (s *Service) discardUpload(ctx context.Context, uploadedVideo *string) {
	if uploadedVideo == nil {
		return
	}
	if err := s.videos.Remove(*uploadedVideo); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "video", *uploadedVideo), "failed to discard orphaned upload")
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
