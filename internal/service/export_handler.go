package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves the settlement workbook of a group.
// It must be mounted on a pattern with an {id} wildcard, e.g.
// "GET /groups/{id}/export.xlsx".
func (s *GroupService) ExportHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		groupID := r.PathValue("id")
		slog.Info("ExportGroup request received", "group_id", groupID)

		settlement, err := s.settle(r.Context(), groupID)
		if err != nil {
			slog.Error("ExportGroup failed", "group_id", groupID, "error", err)
			http.Error(w, err.Error(), httpStatus(err))
			return
		}

		f, err := export.Workbook(export.Report{
			Group:  settlement.group,
			Result: settlement.result,
			Stats:  calculator.GetStats("", settlement.expenses),
		})
		if err != nil {
			slog.Error("ExportGroup failed", "group_id", groupID, "error", err)
			http.Error(w, "failed to build workbook", http.StatusInternalServerError)
			return
		}
		defer f.Close()

		filename := export.Filename(settlement.group, time.Now())
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		if err := f.Write(w); err != nil {
			slog.Error("ExportGroup write failed", "group_id", groupID, "error", err)
		}
	})
}

func httpStatus(err error) int {
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		return http.StatusInternalServerError
	}
	switch connectErr.Code() {
	case connect.CodeNotFound:
		return http.StatusNotFound
	case connect.CodeInvalidArgument:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
