package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/calculator"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutritrack-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound = errors.New("profile not found, please complete your profile first")
	ErrInvalidPicture  = errors.New("profile picture must be a jpg, jpeg, png, gif or webp image of at most 5MB")
)

const (
	maxPictureBytes = 5 << 20
	pictureSubdir   = "profile-pictures"
)

var pictureExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

type ProfileService struct {
	db              *gorm.DB
	recommendations *RecommendationService
	uploadDir       string
	publicBaseURL   string
}

func NewProfileService(db *gorm.DB, recommendations *RecommendationService, uploadDir, publicBaseURL string) *ProfileService {
	return &ProfileService{
		db:              db,
		recommendations: recommendations,
		uploadDir:       uploadDir,
		publicBaseURL:   strings.TrimRight(publicBaseURL, "/"),
	}
}

func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	db := s.db.WithContext(ctx)

	var profile models.UserProfile
	if err := db.Scopes(models.OwnedBy(userID)).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return profileResponse(&user, &profile), nil
}

func validateMeasure(name string, v *float64) error {
	if v != nil && *v < 1 {
		return invalidf("%s must be at least 1", name)
	}
	return nil
}

// Update upserts the profile, recomputes BMI from the stored height and
// weight, then regenerates the recommendation. A regeneration failure is
// logged and does not fail the update.
func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	if err := validateMeasure("height_cm", req.HeightCm); err != nil {
		return nil, err
	}
	if err := validateMeasure("weight_kg", req.WeightKg); err != nil {
		return nil, err
	}
	if err := validateMeasure("target_weight_kg", req.TargetWeightKg); err != nil {
		return nil, err
	}

	var level *string
	if req.ActivityLevel != nil {
		l, err := calculator.ParseActivityLevel(*req.ActivityLevel)
		if err != nil {
			return nil, invalidf("%s", err.Error())
		}
		v := string(l)
		level = &v
	}

	userPatch := map[string]interface{}{}
	if req.Gender != nil {
		g, err := normalizeGender(*req.Gender)
		if err != nil {
			return nil, err
		}
		userPatch["gender"] = g
	}
	if req.DateOfBirth != nil {
		dob, err := parseDate(*req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		userPatch["date_of_birth"] = dob
	}

	var (
		user    models.User
		profile models.UserProfile
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if len(userPatch) > 0 {
			if err := tx.Model(&user).Updates(userPatch).Error; err != nil {
				return err
			}
			if err := tx.First(&user, "id = ?", userID).Error; err != nil {
				return err
			}
		}

		err := tx.Scopes(models.OwnedBy(userID)).First(&profile).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		profile.UserID = userID
		if req.HeightCm != nil {
			profile.HeightCm = req.HeightCm
		}
		if req.WeightKg != nil {
			profile.WeightKg = req.WeightKg
		}
		if req.TargetWeightKg != nil {
			profile.TargetWeightKg = req.TargetWeightKg
		}
		if level != nil {
			profile.ActivityLevel = level
		}
		profile.BMI = calculator.BMI(profile.WeightKg, profile.HeightCm)

		return tx.Omit("User").Save(&profile).Error
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if s.recommendations != nil {
		if _, err := s.recommendations.Generate(ctx, userID); err != nil {
			if errors.Is(err, ErrProfileIncomplete) {
				slog.Info("recommendation not regenerated, profile incomplete", "user_id", userID)
			} else {
				slog.Error("failed to regenerate recommendation", "user_id", userID, "error", err)
			}
		}
	}

	return profileResponse(&user, &profile), nil
}

// UpdatePicture stores an uploaded image under the upload directory and
// saves its public URL on the user.
func (s *ProfileService) UpdatePicture(ctx context.Context, userID uuid.UUID, file *multipart.FileHeader) (*dto.PictureResponse, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !pictureExtensions[ext] || file.Size <= 0 || file.Size > maxPictureBytes {
		return nil, ErrInvalidPicture
	}

	db := s.db.WithContext(ctx)
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	dir := filepath.Join(s.uploadDir, pictureSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	name := uuid.NewString() + ext
	if err := saveUpload(file, filepath.Join(dir, name)); err != nil {
		return nil, err
	}

	url := s.publicBaseURL + path.Join("/uploads", pictureSubdir, name)
	if err := db.Model(&user).Update("profile_picture_url", url).Error; err != nil {
		_ = os.Remove(filepath.Join(dir, name))
		return nil, fmt.Errorf("failed to save picture url: %w", err)
	}
	return &dto.PictureResponse{ProfilePictureURL: url}, nil
}

func saveUpload(file *multipart.FileHeader, dst string) error {
	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()
	return writeUpload(src, dst)
}

// writeUpload copies src to dst. dst is removed again if anything fails.
func writeUpload(src io.Reader, dst string) (err error) {
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close upload: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	if _, err := io.Copy(out, io.LimitReader(src, maxPictureBytes+1)); err != nil {
		return fmt.Errorf("failed to write upload: %w", err)
	}
	return nil
}

func profileResponse(u *models.User, p *models.UserProfile) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		UserID:            u.ID,
		FullName:          u.FullName,
		Gender:            u.Gender,
		DateOfBirth:       u.DateOfBirth,
		HeightCm:          p.HeightCm,
		WeightKg:          p.WeightKg,
		TargetWeightKg:    p.TargetWeightKg,
		ActivityLevel:     p.ActivityLevel,
		BMI:               p.BMI,
		ProfilePictureURL: u.ProfilePictureURL,
		UpdatedAt:         p.UpdatedAt,
	}
}
