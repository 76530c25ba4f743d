// Package notify contains the notification dispatchers used by the status
// update workflow. A Dispatcher attempts delivery over exactly one channel and
// reports the outcome as data: Send never returns an error, so the caller can
// always write an audit row for the attempt.
package notify

import "fmt"

// Result is the raw outcome of one delivery attempt. It is persisted verbatim
// into the notification log payload and never re-parsed.
type Result struct {
	Success  bool   `json:"success"`
	Channel  string `json:"channel"`
	Provider string `json:"provider,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Error    string `json:"error,omitempty"`
}

// StatusUpdate carries the submission context a dispatcher needs to render its
// message.
type StatusUpdate struct {
	Nama         string
	TrackingCode string
	JenisLayanan string
	NewStatus    string
}

// Dispatcher delivers one notification to one destination. Ordinary delivery
// failure is reported via Result.Success=false, never via panic or error.
type Dispatcher interface {
	Send(destination string, update StatusUpdate) Result
}

// RenderMessage builds the Indonesian notification text shared by all
// channels.
func RenderMessage(u StatusUpdate) string {
	return fmt.Sprintf(
		"Halo %s, status pengajuan layanan %q Anda (kode tracking %s) telah diperbarui menjadi %s. Gunakan kode tracking untuk memantau pengajuan Anda.",
		u.Nama, u.JenisLayanan, u.TrackingCode, u.NewStatus)
}

// Disabled is the fallback dispatcher used when a transport is not configured.
// Every attempt is recorded as a failure so the audit trail shows the gap.
type Disabled struct {
	Channel string
	Reason  string
}

func (d Disabled) Send(destination string, update StatusUpdate) Result {
	return Result{
		Success: false,
		Channel: d.Channel,
		Detail:  "dispatcher disabled",
		Error:   d.Reason,
	}
}
