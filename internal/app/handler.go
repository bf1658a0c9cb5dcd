package app

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"modpocket/internal/domain"
	"modpocket/internal/nusmods"
	"modpocket/internal/utility"
	"modpocket/internal/wallpaper"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TimetableFetcher resolves a parsed share link into weekly lessons.
type TimetableFetcher interface {
	FetchTimetable(ctx context.Context, link nusmods.ShareLink) (nusmods.Schedule, error)
}

// Handler serves the wallpaper generation API.
type Handler struct {
	fetcher   TimetableFetcher
	generator wallpaper.Generator
	log       zerolog.Logger
}

func NewHandler(fetcher TimetableFetcher, generator wallpaper.Generator, log zerolog.Logger) *Handler {
	return &Handler{fetcher: fetcher, generator: generator, log: log}
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// HandleGenerate runs one generation attempt end to end: validate,
// parse the share link, resolve the timetable, render, fit, respond.
// Every failure terminates the attempt; the next request starts fresh.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req domain.GenerateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utility.HttpError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.NusmodsURL = strings.TrimSpace(req.NusmodsURL)

	if req.DesignStyle == "" {
		req.DesignStyle = string(domain.DefaultDesignStyle)
	}
	if req.Theme == "" {
		req.Theme = string(domain.DefaultTheme)
	}
	if req.AspectRatio == "" {
		req.AspectRatio = domain.DefaultDeviceID
	}

	style, ok := domain.ParseDesignStyle(req.DesignStyle)
	if !ok {
		utility.HttpError(w, http.StatusBadRequest, fmt.Sprintf(
			"invalid design_style: use one of: %s", strings.Join(domain.DesignStyleNames(), ", ")))
		return
	}
	theme, ok := domain.ParseTheme(req.Theme)
	if !ok {
		utility.HttpError(w, http.StatusBadRequest, `invalid theme: use "light" or "dark"`)
		return
	}
	device, ok := domain.DeviceByID(req.AspectRatio)
	if !ok {
		utility.HttpError(w, http.StatusBadRequest, fmt.Sprintf(
			"invalid aspect_ratio: use one of: %s", strings.Join(domain.DeviceIDs(), ", ")))
		return
	}

	link, err := nusmods.ParseShareLink(req.NusmodsURL)
	if err != nil {
		utility.HttpError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	log := h.log.With().
		Str("generation_id", uuid.NewString()).
		Int("semester", link.Semester).
		Strs("modules", link.ModuleCodes()).
		Str("style", string(style)).
		Str("theme", string(theme)).
		Str("device", device.ID).
		Logger()

	schedule, err := h.fetcher.FetchTimetable(r.Context(), link)
	if err != nil {
		log.Error().Err(err).Msg("timetable fetch failed")
		utility.HttpError(w, http.StatusBadGateway, "failed to fetch timetable data from NUSMods")
		return
	}
	if schedule.LessonCount() == 0 {
		utility.HttpError(w, http.StatusBadRequest, "no lessons found for the provided URL")
		return
	}

	prompt := wallpaper.BuildPrompt(schedule, style, theme, device)

	img, err := h.generator.Generate(r.Context(), prompt, device.GenerationRatio)
	if err != nil {
		log.Error().Err(err).Msg("image generation failed")
		utility.HttpError(w, http.StatusInternalServerError, err.Error())
		return
	}

	fitted, err := wallpaper.FitToDevice(img, device.Width, device.Height)
	if err != nil {
		log.Error().Err(err).Msg("device fitting failed")
		utility.HttpError(w, http.StatusInternalServerError, "failed to process generated image")
		return
	}

	log.Info().
		Int("lessons", schedule.LessonCount()).
		Int("bytes", len(fitted)).
		Dur("elapsed", time.Since(start)).
		Msg("wallpaper generated")

	utility.WriteJSON(w, http.StatusOK, domain.GenerateRes{
		Success:     true,
		ImageBase64: base64.StdEncoding.EncodeToString(fitted),
		Modules:     link.ModuleCodes(),
	})
}
