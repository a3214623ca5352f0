package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/orsys_voucher_app/internal/apperrors"
	"github.com/SscSPs/orsys_voucher_app/internal/core/domain"
	portsrepo "github.com/SscSPs/orsys_voucher_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/orsys_voucher_app/internal/core/ports/services"
	"github.com/SscSPs/orsys_voucher_app/internal/dto"
	"github.com/SscSPs/orsys_voucher_app/internal/events"
	"github.com/SscSPs/orsys_voucher_app/internal/utils/denomination"
	"github.com/SscSPs/orsys_voucher_app/internal/utils/normalizer"
	"github.com/SscSPs/orsys_voucher_app/internal/utils/pagination"
	"github.com/google/uuid"
)

// voucherService implements the voucher reader and writer services.
type voucherService struct {
	BaseService
	voucherRepo portsrepo.VoucherRepositoryFacade
	publisher   events.Publisher
	location    *time.Location
}

// VoucherServiceOption configures the voucher service.
type VoucherServiceOption func(*voucherService)

// WithVoucherAuthorizer checks permissions through authorizer.
func WithVoucherAuthorizer(authorizer portssvc.AccessAuthorizerSvc) VoucherServiceOption {
	return func(s *voucherService) {
		s.Authorizer = authorizer
	}
}

// WithEventPublisher announces created and deleted vouchers on publisher.
func WithEventPublisher(publisher events.Publisher) VoucherServiceOption {
	return func(s *voucherService) {
		s.publisher = publisher
	}
}

// WithVoucherLocation sets the zone a submitted paymentDate is read in.
func WithVoucherLocation(loc *time.Location) VoucherServiceOption {
	return func(s *voucherService) {
		s.location = loc
	}
}

// WithVoucherClock replaces time.Now.
func WithVoucherClock(now func() time.Time) VoucherServiceOption {
	return func(s *voucherService) {
		s.Clock = now
	}
}

// NewVoucherService creates a new voucher service
func NewVoucherService(voucherRepo portsrepo.VoucherRepositoryFacade, options ...VoucherServiceOption) portssvc.VoucherSvcFacade {
	svc := &voucherService{
		voucherRepo: voucherRepo,
		location:    time.UTC,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.VoucherSvcFacade = (*voucherService)(nil)

func validateBook(book domain.Book) error {
	if !book.Valid() {
		return fmt.Errorf("unknown book %q: %w", book, apperrors.ErrValidation)
	}
	return nil
}

func (s *voucherService) CreateVoucher(ctx context.Context, book domain.Book, req dto.CreateVoucherRequest, requestingUserID string) (*domain.Voucher, error) {
	if err := validateBook(book); err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, domain.PermVouchersCreate); err != nil {
		return nil, err
	}

	now := s.Now().UTC()
	denos := req.Denominations()

	fields := denomination.ToFields(denos)
	fields[domain.FieldSlipNo] = now.UnixMilli()
	fields[domain.FieldEntryDate] = now.Format(time.RFC3339Nano)
	fields[domain.FieldSysDate] = now.Format(time.RFC3339Nano)
	fields[domain.FieldPaymentFrom] = strings.TrimSpace(req.PaymentFrom)
	fields[domain.FieldPointPerson] = strings.TrimSpace(req.PointPerson)
	fields[domain.FieldPaymentMode] = strings.TrimSpace(req.PaymentMode)
	fields[domain.FieldPaymentStatus] = req.PaymentStatus
	fields[domain.FieldCash] = denos.Amount()
	if req.PaymentDate != "" {
		paymentDate, err := time.ParseInLocation("2006-01-02", req.PaymentDate, s.location)
		if err != nil {
			return nil, fmt.Errorf("invalid paymentDate %q: %w", req.PaymentDate, apperrors.ErrValidation)
		}
		fields[domain.FieldPaymentDate] = paymentDate.Format("2006-01-02")
	}
	optional := map[string]string{
		domain.FieldPaymentHead: req.PaymentHead,
		domain.FieldCellNo:      req.CellNo,
		domain.FieldRemarks:     req.Remarks,
		domain.FieldUser:        req.User,
		domain.FieldEmail:       req.Email,
	}
	for field, value := range optional {
		if value = strings.TrimSpace(value); value != "" {
			fields[field] = value
		}
	}

	raw := domain.RawVoucher{
		ID:     uuid.NewString(),
		Book:   book,
		Fields: fields,
	}
	voucher, err := normalizer.NormalizeIn(raw, s.location)
	if err != nil {
		return nil, fmt.Errorf("failed to build voucher: %w", err)
	}

	if err := s.voucherRepo.SaveVoucher(ctx, raw, now); err != nil {
		s.LogError(ctx, err, "Failed to save voucher",
			slog.String("book", string(book)),
			slog.Int64("slip_no", voucher.SlipNo))
		return nil, fmt.Errorf("failed to save voucher: %w", err)
	}

	s.LogInfo(ctx, "Voucher created",
		slog.String("book", string(book)),
		slog.String("voucher_id", voucher.ID),
		slog.Int64("slip_no", voucher.SlipNo),
		slog.Int64("amount", voucher.Amount))
	s.publish(ctx, events.NewVoucherEvent(events.VoucherCreated, book, voucher.ID, voucher.SlipNo))
	return &voucher, nil
}

// publish announces evt. A failed publish is logged; the write itself already succeeded.
func (s *voucherService) publish(ctx context.Context, evt *events.VoucherEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishVoucherEvent(ctx, evt); err != nil {
		s.LogError(ctx, err, "Failed to publish voucher event",
			slog.String("event_type", string(evt.Type)),
			slog.String("voucher_id", evt.VoucherID))
	}
}

func (s *voucherService) GetVoucher(ctx context.Context, book domain.Book, id string, requestingUserID string) (*domain.Voucher, error) {
	if err := validateBook(book); err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, domain.PermVouchersView); err != nil {
		return nil, err
	}

	raw, err := s.voucherRepo.FindVoucherByID(ctx, book, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("voucher %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get voucher: %w", err)
	}

	voucher, err := normalizer.NormalizeIn(*raw, s.location)
	if err != nil {
		s.LogWarn(ctx, "Stored voucher is malformed", slog.String("voucher_id", id), slog.String("error", err.Error()))
		return nil, err
	}
	return &voucher, nil
}

func (s *voucherService) VerifySlip(ctx context.Context, slipNo int64, requestingUserID string) (*domain.Voucher, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, domain.PermVouchersView); err != nil {
		return nil, err
	}

	raws, err := s.voucherRepo.FindVouchersBySlipNo(ctx, domain.ReceiptBook, slipNo)
	if err != nil {
		return nil, fmt.Errorf("failed to look up slip: %w", err)
	}
	batch := normalizer.NormalizeBatchIn(raws, s.location)
	if len(batch.Vouchers) == 0 {
		return nil, fmt.Errorf("slip %d: %w", slipNo, apperrors.ErrNotFound)
	}
	if len(batch.Vouchers) > 1 {
		s.LogWarn(ctx, "Slip number matches several receipts", slog.Int64("slip_no", slipNo), slog.Int("matches", len(batch.Vouchers)))
	}
	return &batch.Vouchers[0], nil
}

func (s *voucherService) ListVouchers(ctx context.Context, params dto.ListVouchersParams, requestingUserID string) (*dto.ListVouchersResponse, error) {
	if err := validateBook(params.Book); err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, domain.PermVouchersView); err != nil {
		return nil, err
	}

	var afterEntry *time.Time
	afterID := ""
	if params.NextToken != nil && *params.NextToken != "" {
		entry, id, err := pagination.DecodeVoucherToken(*params.NextToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		afterEntry = &entry
		afterID = id
	}

	filter := domain.VoucherFilter{
		Book:   params.Book,
		From:   params.From,
		To:     params.To,
		Status: params.Status,
	}
	page, err := s.voucherRepo.ListVouchers(ctx, filter, pagination.ClampLimit(params.Limit), afterEntry, afterID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list vouchers", slog.String("book", string(params.Book)))
		return nil, fmt.Errorf("failed to list vouchers: %w", err)
	}

	batch := normalizer.NormalizeBatchIn(page.Records, s.location)
	s.logSkipped(ctx, batch)

	resp := &dto.ListVouchersResponse{
		Vouchers:     dto.ToVoucherResponses(batch.Vouchers),
		SkippedCount: batch.SkippedCount(),
	}
	if batch.SkippedCount() > 0 {
		resp.SkippedIDs = batch.SkippedIDs()
	}
	if page.NextEntry != nil {
		token := pagination.EncodeVoucherToken(*page.NextEntry, page.NextID)
		resp.NextToken = &token
	}
	return resp, nil
}

func (s *voucherService) Snapshot(ctx context.Context, filter domain.VoucherFilter) (normalizer.Batch, error) {
	if err := validateBook(filter.Book); err != nil {
		return normalizer.Batch{}, err
	}
	raws, err := s.voucherRepo.FindVouchers(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch vouchers", slog.String("book", string(filter.Book)))
		return normalizer.Batch{}, fmt.Errorf("failed to fetch vouchers: %w", err)
	}
	batch := normalizer.NormalizeBatchIn(raws, s.location)
	s.logSkipped(ctx, batch)
	return batch, nil
}

func (s *voucherService) logSkipped(ctx context.Context, batch normalizer.Batch) {
	for _, skipped := range batch.Skipped {
		s.LogWarn(ctx, "Skipping malformed voucher",
			slog.String("voucher_id", skipped.ID),
			slog.String("missing_field", skipped.Field))
	}
}

func (s *voucherService) DeleteVoucher(ctx context.Context, book domain.Book, id string, requestingUserID string) error {
	if err := validateBook(book); err != nil {
		return err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, domain.PermVouchersDelete); err != nil {
		return err
	}

	var slipNo int64
	if raw, err := s.voucherRepo.FindVoucherByID(ctx, book, id); err == nil {
		if v, err := normalizer.NormalizeIn(*raw, s.location); err == nil {
			slipNo = v.SlipNo
		}
	}

	if err := s.voucherRepo.DeleteVoucher(ctx, book, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("voucher %s: %w", id, apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "Failed to delete voucher", slog.String("voucher_id", id))
		return fmt.Errorf("failed to delete voucher: %w", err)
	}

	s.LogInfo(ctx, "Voucher deleted",
		slog.String("book", string(book)),
		slog.String("voucher_id", id),
		slog.String("deleted_by", requestingUserID))
	s.publish(ctx, events.NewVoucherEvent(events.VoucherDeleted, book, id, slipNo))
	return nil
}
