package service

import (
	"context"
	"errors"

	"github.com/ajedamilola/pharmalink/internal/model"
	"github.com/ajedamilola/pharmalink/internal/repository"
	ws "github.com/ajedamilola/pharmalink/internal/websocket"

	"github.com/google/uuid"
)

var (
	ErrPharmacyNotFound = errors.New("pharmacy profile not found")
	ErrVendorNotFound   = errors.New("vendor profile not found")
	ErrNotOwner         = errors.New("resource does not belong to this account")
)

// resolvePharmacy maps the authenticated user id onto its pharmacy tenant row.
func resolvePharmacy(ctx context.Context, repo repository.PharmacyRepository, userID string) (*model.Pharmacy, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, errors.New("invalid user id")
	}
	pharmacy, err := repo.FindByUserID(ctx, uid)
	if err != nil {
		return nil, ErrPharmacyNotFound
	}
	return pharmacy, nil
}

func resolveVendor(ctx context.Context, repo repository.VendorRepository, userID string) (*model.Vendor, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, errors.New("invalid user id")
	}
	vendor, err := repo.FindByUserID(ctx, uid)
	if err != nil {
		return nil, ErrVendorNotFound
	}
	return vendor, nil
}

// pendingNotices collects inbox rows written inside a transaction so their
// hub events fire only after the commit. A rolled-back transaction leaves
// the collector unflushed.
type pendingNotices struct {
	events []map[string]any
}

func (p *pendingNotices) record(userID uuid.UUID, message, notifType string) {
	p.events = append(p.events, map[string]any{
		"user_id": userID.String(),
		"message": message,
		"type":    notifType,
	})
}

func (p *pendingNotices) flush(hub *ws.Hub) {
	for _, e := range p.events {
		hub.BroadcastEvent(ws.EventNotification, e)
	}
}

// notifyUser writes an inbox row inside the caller's transaction context and
// queues the matching hub event on the collector.
func notifyUser(ctx context.Context, repo repository.NotificationRepository, notices *pendingNotices, userID uuid.UUID, message, notifType string) error {
	if err := repo.Create(ctx, &model.Notification{
		UserID:  userID,
		Message: message,
		Type:    notifType,
	}); err != nil {
		return err
	}
	notices.record(userID, message, notifType)
	return nil
}

// notifyAdmins fans a message out to every admin account.
func notifyAdmins(ctx context.Context, userRepo repository.UserRepository, notifRepo repository.NotificationRepository, notices *pendingNotices, message, notifType string) error {
	admins, err := userRepo.ListByRole(ctx, model.RoleAdmin)
	if err != nil {
		return err
	}
	for _, admin := range admins {
		if err := notifyUser(ctx, notifRepo, notices, admin.ID, message, notifType); err != nil {
			return err
		}
	}
	return nil
}

func findLot(ctx context.Context, repo repository.InventoryRepository, lotID string) (*model.InventoryLot, error) {
	id, err := uuid.Parse(lotID)
	if err != nil {
		return nil, errors.New("invalid lot id")
	}
	lot, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("lot not found")
	}
	return lot, nil
}

func parseActor(userID string) *uuid.UUID {
	if parsed, err := uuid.Parse(userID); err == nil {
		return &parsed
	}
	return nil
}
