package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"rifa/internal/apperr"
	"rifa/internal/external"
	"rifa/internal/models"
	"rifa/internal/search"
)

// RaffleService owns raffle CRUD, the cached storefront list and search.
type RaffleService struct {
	raffles RaffleStore
	images  ImageUploader
	index   RaffleIndex
	cache   ListCache
}

func NewRaffleService(raffles RaffleStore, images ImageUploader, index RaffleIndex, cache ListCache) *RaffleService {
	return &RaffleService{
		raffles: raffles,
		images:  images,
		index:   index,
		cache:   cache,
	}
}

func (s *RaffleService) Create(ctx context.Context, req *models.CreateRaffleRequest) (*models.Raffle, error) {
	if req.TotalTickets <= 0 {
		return nil, apperr.Capacity("La cantidad de tickets debe ser mayor a cero")
	}

	minTickets := req.MinTickets
	if minTickets <= 0 {
		minTickets = 1
	}

	images, err := s.resolveImages(req.Images)
	if err != nil {
		return nil, err
	}

	raffle := &models.Raffle{
		Title:            req.Title,
		Description:      req.Description,
		Price:            req.Price,
		TotalTickets:     req.TotalTickets,
		MinTickets:       minTickets,
		RandomTickets:    req.RandomTickets,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		Images:           images,
		Status:           models.RaffleStatusActive,
		SoldTickets:      []string{},
		ReservedTickets:  []string{},
		AvailableNumbers: req.TotalTickets,
		PendingPurchases: []models.Purchase{},
		Users:            []models.Purchase{},
	}

	if err := s.raffles.Create(ctx, raffle); err != nil {
		return nil, fmt.Errorf("failed to create raffle: %w", err)
	}

	s.afterWrite(ctx, raffle, false)
	return raffle, nil
}

func (s *RaffleService) GetByID(ctx context.Context, id string) (*models.Raffle, error) {
	raffle, err := s.raffles.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load raffle: %w", err)
	}
	if raffle == nil {
		return nil, apperr.NotFound("Rifa no encontrada")
	}
	return raffle, nil
}

// List returns the storefront raffle list as serialized JSON. The payload is
// cached raw so a hit skips both Postgres and re-marshaling.
func (s *RaffleService) List(ctx context.Context) ([]byte, error) {
	if s.cache != nil {
		if payload, err := s.cache.GetRaffleList(ctx); err == nil && payload != nil {
			return payload, nil
		} else if err != nil {
			slog.Warn("Raffle list cache read failed", "error", err)
		}
	}

	raffles, err := s.raffles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list raffles: %w", err)
	}

	summaries := make([]models.RaffleSummary, len(raffles))
	for i, r := range raffles {
		summaries[i] = models.RaffleSummary{
			ID:               r.ID,
			Title:            r.Title,
			Price:            r.Price,
			TotalTickets:     r.TotalTickets,
			AvailableNumbers: r.AvailableNumbers,
			RandomTickets:    r.RandomTickets,
			Images:           r.Images,
			Status:           r.Status,
		}
	}

	payload, err := json.Marshal(summaries)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal raffle list: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetRaffleList(ctx, payload); err != nil {
			slog.Warn("Raffle list cache write failed", "error", err)
		}
	}

	return payload, nil
}

func (s *RaffleService) Update(ctx context.Context, id string, req *models.UpdateRaffleRequest) (*models.Raffle, error) {
	raffle, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		raffle.Title = *req.Title
	}
	if req.Description != nil {
		raffle.Description = *req.Description
	}
	if req.Price != nil {
		raffle.Price = *req.Price
	}
	if req.MinTickets != nil && *req.MinTickets > 0 {
		raffle.MinTickets = *req.MinTickets
	}
	if req.StartDate != nil {
		raffle.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		raffle.EndDate = req.EndDate
	}
	if req.RandomTickets != nil {
		raffle.RandomTickets = *req.RandomTickets
	}
	if req.Status != nil {
		if *req.Status != models.RaffleStatusActive && *req.Status != models.RaffleStatusFinished {
			return nil, apperr.Capacity("Estado de rifa inválido: %s", *req.Status)
		}
		raffle.Status = *req.Status
	}
	if req.Images != nil {
		images, err := s.resolveImages(req.Images)
		if err != nil {
			return nil, err
		}
		raffle.Images = images
	}

	if err := s.raffles.Update(ctx, raffle); err != nil {
		return nil, fmt.Errorf("failed to update raffle: %w", err)
	}

	s.afterWrite(ctx, raffle, false)
	return raffle, nil
}

func (s *RaffleService) Delete(ctx context.Context, id string) error {
	raffle, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.raffles.Delete(ctx, raffle.ID); err != nil {
		return fmt.Errorf("failed to delete raffle: %w", err)
	}

	s.afterWrite(ctx, raffle, true)
	return nil
}

// Search runs the query against the search index when one is configured, and
// falls back to a substring scan over Postgres otherwise.
func (s *RaffleService) Search(ctx context.Context, query string, size int) ([]search.RaffleDocument, error) {
	if s.index != nil {
		return s.index.Search(ctx, query, size)
	}

	raffles, err := s.raffles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list raffles: %w", err)
	}

	needle := strings.ToLower(query)
	var docs []search.RaffleDocument
	for i := range raffles {
		r := &raffles[i]
		if needle == "" ||
			strings.Contains(strings.ToLower(r.Title), needle) ||
			strings.Contains(strings.ToLower(r.Description), needle) {
			docs = append(docs, *search.DocumentFromRaffle(r))
		}
		if size > 0 && len(docs) == size {
			break
		}
	}
	return docs, nil
}

// InvalidateList drops the cached storefront list. Ticket mutations call this
// so available counts do not go stale for a full TTL.
func (s *RaffleService) InvalidateList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateRaffleList(ctx); err != nil {
		slog.Warn("Raffle list cache invalidation failed", "error", err)
	}
}

// resolveImages uploads base64 payloads and passes hosted URLs through.
func (s *RaffleService) resolveImages(images []string) ([]string, error) {
	resolved := make([]string, 0, len(images))
	for _, img := range images {
		if external.IsUploadable(img) {
			if s.images == nil || !s.images.Enabled() {
				return nil, apperr.Capacity("La carga de imágenes no está configurada")
			}
			url, err := s.images.Upload(img)
			if err != nil {
				return nil, fmt.Errorf("failed to upload image: %w", err)
			}
			resolved = append(resolved, url)
			continue
		}
		resolved = append(resolved, img)
	}
	return resolved, nil
}

func (s *RaffleService) afterWrite(ctx context.Context, raffle *models.Raffle, deleted bool) {
	s.InvalidateList(ctx)

	if s.index == nil {
		return
	}
	var err error
	if deleted {
		err = s.index.DeleteRaffle(ctx, raffle.ID)
	} else {
		err = s.index.IndexRaffle(ctx, search.DocumentFromRaffle(raffle))
	}
	if err != nil {
		slog.Warn("Raffle index update failed", "raffle_id", raffle.ID, "error", err)
	}
}
