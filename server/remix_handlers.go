package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"retunefm/cache"
	"retunefm/core/meta"
	"retunefm/core/musickey"
	"retunefm/core/plan"
	"retunefm/logger"
	"retunefm/model"
	"retunefm/storage"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const downloadURLExpiry = 24 * time.Hour

// planRequest is the body of a dry-run plan request.
type planRequest struct {
	Filename  string `json:"filename"`
	TargetKey string `json:"targetKey"`
	TargetBPM int    `json:"targetBpm"`
}

// planResponse carries the extracted metadata alongside the computed plan.
type planResponse struct {
	Metadata meta.TrackMetadata  `json:"metadata"`
	Plan     *plan.TransformPlan `json:"plan"`
}

// planStatus maps a planning failure to an HTTP status. Core errors are
// deterministic input rejections; anything else is a server fault.
func planStatus(err error) int {
	if errors.Is(err, plan.ErrInvalidInput) || errors.Is(err, musickey.ErrUnknownKey) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// PlanHandler computes a transform plan from a filename and targets without
// touching any audio. POST /api/plan.
func (h *APIHandler) PlanHandler(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Filename == "" {
		respondWithError(w, http.StatusBadRequest, "filename is required")
		return
	}

	md := meta.Extract(req.Filename)

	cacheKey := cache.PlanKey(req.Filename, req.TargetKey, req.TargetBPM)
	if cached := cache.GetPlan(r.Context(), cacheKey); cached != nil {
		respondWithJSON(w, http.StatusOK, planResponse{Metadata: md, Plan: cached})
		return
	}

	p, err := plan.Plan(md, req.TargetKey, req.TargetBPM)
	if err != nil {
		respondWithError(w, planStatus(err), err.Error())
		return
	}

	cache.PutPlan(r.Context(), cacheKey, p)
	respondWithJSON(w, http.StatusOK, planResponse{Metadata: md, Plan: p})
}

// RemixHandler accepts an audio upload plus target key/tempo, plans the
// transform, renders it through ffmpeg and stores the result.
// POST /api/remix, multipart fields: trackFile, targetKey, targetBpm.
func (h *APIHandler) RemixHandler(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.cfg.MaxUploadMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Failed to parse upload form (max %d MB)", h.cfg.MaxUploadMB))
		return
	}

	file, header, err := r.FormFile("trackFile")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "trackFile is required")
		return
	}
	defer file.Close()

	targetKey := r.FormValue("targetKey")
	targetBPM, err := strconv.Atoi(r.FormValue("targetBpm"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "targetBpm must be an integer")
		return
	}

	md := meta.Extract(header.Filename)
	p, err := plan.Plan(md, targetKey, targetBPM)
	if err != nil {
		// Planning failure short-circuits before ffmpeg is touched.
		respondWithError(w, planStatus(err), err.Error())
		return
	}

	jobID := uuid.NewString()
	inputPath := filepath.Join(h.cfg.UploadDir, jobID+"_"+sanitizeFilename(header.Filename))
	if err := saveUpload(file, inputPath); err != nil {
		logger.Error("Failed to store upload", logger.String("jobId", jobID), logger.ErrorField(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}
	defer os.Remove(inputPath)

	duration, err := h.renderer.Duration(inputPath)
	if err != nil {
		logger.Warn("Could not probe upload duration, proceeding without it",
			logger.String("jobId", jobID),
			logger.ErrorField(err),
		)
	}

	job := &model.RemixJob{
		ID:               jobID,
		OriginalFilename: header.Filename,
		SourceKey:        *md.Key,
		SourceBPM:        *md.Tempo,
		TargetKey:        targetKey,
		TargetBPM:        targetBPM,
		SemitoneShift:    p.SemitoneShift,
		PitchFactor:      p.PitchFactor,
		TempoStages:      p.TempoStages,
		Duration:         duration,
		Status:           model.JobProcessing,
	}
	if err := h.jobRepo.CreateJob(job); err != nil {
		logger.Error("Failed to record remix job", logger.ErrorField(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to record job")
		return
	}

	outputName := jobID + "." + h.cfg.OutputFormat
	outputPath := filepath.Join(h.cfg.RenderDir, outputName)

	if err := h.renderer.Render(inputPath, outputPath, p); err != nil {
		h.failJob(r, job, err)
		respondWithError(w, http.StatusInternalServerError, "Rendering failed")
		return
	}
	defer os.Remove(outputPath)

	objectKey := "renders/" + outputName
	if err := storage.UploadRendered(r.Context(), objectKey, outputPath, "audio/mpeg"); err != nil {
		h.failJob(r, job, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to store rendered file")
		return
	}

	downloadURL, err := storage.PresignedDownloadURL(r.Context(), objectKey, downloadURLExpiry)
	if err != nil {
		h.failJob(r, job, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to create download URL")
		return
	}

	job.Status = model.JobCompleted
	job.OutputObjectKey = objectKey
	if err := h.jobRepo.UpdateJobResult(job.ID, job.Status, objectKey, ""); err != nil {
		logger.Error("Failed to update remix job", logger.String("jobId", job.ID), logger.ErrorField(err))
	}
	cache.PutJob(r.Context(), job)

	logger.Info("Remix completed",
		logger.String("jobId", job.ID),
		logger.String("filename", header.Filename),
		logger.Int("semitoneShift", p.SemitoneShift),
		logger.Int("stages", len(p.TempoStages)),
	)

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"job":         job,
		"plan":        p,
		"downloadUrl": downloadURL.String(),
	})
}

// GetJobHandler returns one job's status. GET /api/jobs/{id}.
func (h *APIHandler) GetJobHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if job := cache.GetJob(r.Context(), id); job != nil {
		respondWithJSON(w, http.StatusOK, job)
		return
	}

	job, err := h.jobRepo.GetJobByID(id)
	if err != nil {
		logger.Error("Failed to load remix job", logger.String("jobId", id), logger.ErrorField(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to load job")
		return
	}
	if job == nil {
		respondWithError(w, http.StatusNotFound, "Job not found")
		return
	}

	cache.PutJob(r.Context(), job)
	respondWithJSON(w, http.StatusOK, job)
}

// ListJobsHandler returns recent jobs, newest first. GET /api/jobs.
func (h *APIHandler) ListJobsHandler(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	jobs, err := h.jobRepo.ListRecentJobs(limit)
	if err != nil {
		logger.Error("Failed to list remix jobs", logger.ErrorField(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}
	if jobs == nil {
		jobs = []*model.RemixJob{}
	}
	respondWithJSON(w, http.StatusOK, jobs)
}

func (h *APIHandler) failJob(r *http.Request, job *model.RemixJob, cause error) {
	logger.Error("Remix job failed",
		logger.String("jobId", job.ID),
		logger.ErrorField(cause),
	)
	job.Status = model.JobFailed
	job.ErrorMessage = cause.Error()
	if err := h.jobRepo.UpdateJobResult(job.ID, model.JobFailed, "", cause.Error()); err != nil {
		logger.Error("Failed to mark remix job failed", logger.String("jobId", job.ID), logger.ErrorField(err))
	}
	cache.PutJob(r.Context(), job)
}

func saveUpload(src io.Reader, dst string) error {
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dst)
		return err
	}
	return nil
}
