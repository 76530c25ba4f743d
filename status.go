package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"silayan/models"
	"silayan/pkg/notify"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// Transition guard errors, mapped to 400 at the handler boundary.
var (
	ErrInvalidStatus   = errors.New("status tidak valid")
	ErrStatusUnchanged = errors.New("status tidak berubah")
)

// validateTransition accepts a requested status only if it is a member of the
// enumeration and differs from the current status. No side effects.
func validateTransition(current, requested string) error {
	if !models.ValidStatus(requested) {
		return ErrInvalidStatus
	}
	if requested == current {
		return ErrStatusUnchanged
	}
	return nil
}

// logPayload is what gets frozen into the jsonb audit column: the recipient,
// the status being announced, and the dispatcher's raw result.
type logPayload struct {
	Recipient    string        `json:"recipient"`
	TargetStatus string        `json:"target_status"`
	Result       notify.Result `json:"result"`
}

// dispatchAndLog runs one channel end to end: attempt delivery (never fails),
// then persist exactly one audit row for the attempt. Only the audit write can
// return an error.
func (s *Server) dispatchAndLog(d notify.Dispatcher, channel, destination string, sub *models.Submission, newStatus string) error {
	result := d.Send(destination, notify.StatusUpdate{
		Nama:         sub.Nama,
		TrackingCode: sub.TrackingCode,
		JenisLayanan: sub.JenisLayanan,
		NewStatus:    newStatus,
	})
	sendStatus := models.SendFailed
	if result.Success {
		sendStatus = models.SendSuccess
	}
	raw, err := json.Marshal(logPayload{Recipient: destination, TargetStatus: newStatus, Result: result})
	if err != nil {
		return err
	}
	return s.store.CreateLog(&models.NotificationLog{
		SubmissionID: sub.ID,
		Channel:      channel,
		SendStatus:   sendStatus,
		Payload:      raw,
	})
}

// updateStatusHandler is the PATCH /submissions/:id workflow: load, validate
// the transition, persist the new status with a conditional update, then fan
// out to WhatsApp (always) and email (if present) concurrently, writing one
// audit row per attempted channel. The status change is final once persisted;
// delivery failures are data. A failed audit write propagates as 500 so the
// trail stays trustworthy.
func (s *Server) updateStatusHandler(c *gin.Context) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "pengajuan tidak ditemukan"})
		return
	}
	id := uint(id64)

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "status wajib diisi", "error": err.Error()})
		return
	}

	sub, err := s.store.FindSubmission(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "pengajuan tidak ditemukan"})
			return
		}
		log.Printf("update status: load submission %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "terjadi kesalahan internal"})
		return
	}

	if err := validateTransition(sub.Status, req.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	oldStatus := sub.Status
	// Conditional update keyed on the status we validated against. Zero rows
	// affected means another writer changed the status since our read.
	changed, err := s.store.UpdateStatus(sub.ID, oldStatus, req.Status)
	if err != nil {
		log.Printf("update status: persist submission %d: %v", sub.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "terjadi kesalahan internal"})
		return
	}
	if !changed {
		c.JSON(http.StatusConflict, gin.H{"message": "status pengajuan berubah oleh proses lain, muat ulang dan coba lagi"})
		return
	}

	// Status change is committed. Both channels are attempted and logged even
	// if one audit write errors; Wait surfaces the first failure.
	var g errgroup.Group
	g.Go(func() error {
		return s.dispatchAndLog(s.wa, models.ChannelWhatsApp, sub.NoWA, sub, req.Status)
	})
	if sub.Email != "" {
		g.Go(func() error {
			return s.dispatchAndLog(s.mail, models.ChannelEmail, sub.Email, sub, req.Status)
		})
	}
	if err := g.Wait(); err != nil {
		log.Printf("update status: audit log for submission %d: %v", sub.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "terjadi kesalahan internal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "status pengajuan berhasil diperbarui",
		"old_status":    oldStatus,
		"new_status":    req.Status,
		"submission_id": sub.ID,
	})
}
