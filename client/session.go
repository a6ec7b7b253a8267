package client

import (
	"context"
	"sync"
	"time"

	"github.com/MerchantKhalid/foodhub/lifecycle"
	"github.com/MerchantKhalid/foodhub/models"
	"github.com/MerchantKhalid/foodhub/tracker"
	"github.com/MerchantKhalid/foodhub/utils"
)

// DefaultPollInterval adalah jarak antar refresh otomatis selama order
// belum terminal.
const DefaultPollInterval = 30 * time.Second

// justPlacedBanner: berapa lama banner "order berhasil dibuat" ditampilkan.
const justPlacedBanner = 5 * time.Second

// Role menentukan kapabilitas sebuah session: customer bisa Cancel,
// provider bisa AdvanceStatus, admin read-only. Tidak pernah dua-duanya.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

// Session adalah controller stateful untuk satu order dari sudut pandang
// satu viewer: fetch saat mount, polling selama non-terminal, dan perintah
// mutasi sesuai role. Snapshot order dimiliki eksklusif oleh session ini;
// dua view atas order yang sama masing-masing punya session sendiri.
type Session struct {
	// Interval antar poll. Default DefaultPollInterval.
	Interval time.Duration

	client  *Client
	orderID string
	role    Role
	rules   lifecycle.Rules

	mu          sync.Mutex
	order       *models.Order
	inFlight    bool
	bannerUntil time.Time
}

func newSession(c *Client, orderID string, role Role) *Session {
	return &Session{
		Interval: DefaultPollInterval,
		client:   c,
		orderID:  orderID,
		role:     role,
		rules:    lifecycle.DefaultRules,
	}
}

// NewCustomerSession: session untuk customer pemilik order.
func NewCustomerSession(c *Client, orderID string) *Session {
	return newSession(c, orderID, RoleCustomer)
}

// NewProviderSession: session untuk provider tujuan order.
func NewProviderSession(c *Client, orderID string) *Session {
	return newSession(c, orderID, RoleProvider)
}

// NewAdminSession: session read-only untuk admin.
func NewAdminSession(c *Client, orderID string) *Session {
	return newSession(c, orderID, RoleAdmin)
}

func (s *Session) fetch(ctx context.Context) (*models.Order, error) {
	switch s.role {
	case RoleProvider:
		return s.client.ProviderGetOrder(ctx, s.orderID)
	case RoleAdmin:
		return s.client.AdminGetOrder(ctx, s.orderID)
	default:
		return s.client.GetOrder(ctx, s.orderID)
	}
}

// Load mengambil order dari server dan mengisi snapshot lokal. Error yang
// kembali sudah terklasifikasi: transient boleh di-retry oleh user,
// not-found/authorization terminal untuk view ini.
func (s *Session) Load(ctx context.Context) (*models.Order, error) {
	order, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	s.applySnapshot(order)
	return s.Order(), nil
}

// Order mengembalikan snapshot terakhir yang diterima, atau nil sebelum
// Load pertama berhasil.
func (s *Session) Order() *models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order
}

// applySnapshot menerapkan respons server sebagai snapshot baru, kecuali
// respons itu basi: updatedAt yang lebih tua atau sama dengan yang sedang
// ditampilkan dibuang. Dengan begitu respons mutasi selalu menjadi tulisan
// terakhir walaupun balapan dengan poll yang sedang jalan.
func (s *Session) applySnapshot(order *models.Order) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.order != nil && !order.UpdatedAt.After(s.order.UpdatedAt) {
		return false
	}
	s.order = order
	return true
}

// terminal melaporkan apakah snapshot sekarang sudah DELIVERED/CANCELLED.
func (s *Session) terminal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order != nil && s.order.Status.Terminal()
}

// Subscription adalah handle poll yang sedang berjalan. Stop wajib
// dipanggil saat view ditutup; timer yang bocor setelah teardown adalah
// defect, bukan sekadar kurang rapi.
type Subscription struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// Stop menghentikan polling. Idempotent.
func (sub *Subscription) Stop() {
	sub.once.Do(func() { close(sub.stop) })
}

// Done tertutup saat goroutine poll selesai (karena Stop atau karena
// status terminal terlihat).
func (sub *Subscription) Done() <-chan struct{} {
	return sub.done
}

// Poll me-refresh snapshot tiap Interval selama order belum terminal.
// Kegagalan poll ditelan (hanya dicatat) dan tidak mengganti snapshot
// terakhir yang baik; begitu status terminal terlihat, polling berhenti
// sendiri dalam satu tick.
func (s *Session) Poll() *Subscription {
	sub := &Subscription{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go func() {
		defer close(sub.done)

		if s.terminal() {
			return
		}

		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if s.terminal() {
					return
				}
				order, err := s.fetch(context.Background())
				if err != nil {
					if utils.ErrorLogger != nil {
						utils.ErrorLogger.Printf("poll order %s: %v", s.orderID, err)
					}
					continue
				}
				s.applySnapshot(order)
				if s.terminal() {
					return
				}
			case <-sub.stop:
				return
			}
		}
	}()

	return sub
}

// beginMutation menahan mutasi kedua selama satu mutasi masih in-flight.
func (s *Session) beginMutation() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return ErrBusy
	}
	s.inFlight = true
	return nil
}

func (s *Session) endMutation() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

// CanCancel melaporkan apakah tombol cancel boleh ditampilkan: session
// customer dan status masih di window pembatalan.
func (s *Session) CanCancel() bool {
	if s.role != RoleCustomer {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order != nil && s.rules.CustomerCanCancel(s.order.Status)
}

// Cancel membatalkan order dengan alasan. Validasi input dan eligibility
// dicek dulu di sini sebelum ada request ke server; UI tidak pernah
// menebak state baru, snapshot hanya diganti oleh respons server.
func (s *Session) Cancel(ctx context.Context, reason string) (*models.Order, error) {
	if s.role != RoleCustomer {
		return nil, &APIError{Kind: KindAuthorization, Message: "only the customer may cancel an order"}
	}
	if !lifecycle.ValidReason(reason) {
		return nil, &APIError{Kind: KindValidation, Message: "cancellation reason is required"}
	}

	s.mu.Lock()
	if s.order != nil && !s.rules.CustomerCanCancel(s.order.Status) {
		from := s.order.Status
		s.mu.Unlock()
		return nil, &APIError{
			Kind:    KindInvalidTransition,
			Message: (&lifecycle.InvalidTransitionError{Actor: lifecycle.ActorCustomer, From: from, To: lifecycle.StatusCancelled}).Error(),
		}
	}
	s.mu.Unlock()

	if err := s.beginMutation(); err != nil {
		return nil, err
	}
	defer s.endMutation()

	order, err := s.client.CancelOrder(ctx, s.orderID, reason)
	if err != nil {
		// Snapshot tidak disentuh; error server tampil apa adanya
		return nil, err
	}
	s.applySnapshot(order)
	return s.Order(), nil
}

// NextActions mengembalikan aksi status berikutnya yang legal untuk
// provider, dihitung dari status snapshot yang sudah dikonfirmasi server,
// tidak pernah dari state yang diasumsikan lokal.
func (s *Session) NextActions() []lifecycle.Action {
	if s.role != RoleProvider {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.order == nil {
		return nil
	}
	return lifecycle.NextActions(s.order.Status)
}

// AdvanceStatus memajukan status order atas nama provider. Target dicek
// terhadap tabel transisi sebelum request dikirim; server tetap
// memvalidasi ulang.
func (s *Session) AdvanceStatus(ctx context.Context, target lifecycle.Status, reason string) (*models.Order, error) {
	if s.role != RoleProvider {
		return nil, &APIError{Kind: KindAuthorization, Message: "only the provider may advance an order"}
	}
	if !target.Valid() {
		return nil, &APIError{Kind: KindValidation, Message: "unknown target status"}
	}
	if target == lifecycle.StatusCancelled && !lifecycle.ValidReason(reason) {
		return nil, &APIError{Kind: KindValidation, Message: "cancellation reason is required"}
	}

	s.mu.Lock()
	if s.order != nil && !s.rules.Can(lifecycle.ActorProvider, s.order.Status, target) {
		from := s.order.Status
		s.mu.Unlock()
		return nil, &APIError{
			Kind:    KindInvalidTransition,
			Message: (&lifecycle.InvalidTransitionError{Actor: lifecycle.ActorProvider, From: from, To: target}).Error(),
		}
	}
	s.mu.Unlock()

	if err := s.beginMutation(); err != nil {
		return nil, err
	}
	defer s.endMutation()

	order, err := s.client.ProviderUpdateStatus(ctx, s.orderID, target, reason)
	if err != nil {
		return nil, err
	}
	s.applySnapshot(order)
	return s.Order(), nil
}

// TrackerView memproyeksikan snapshot sekarang ke tampilan progression.
// ok false selama belum ada snapshot (Load belum berhasil).
func (s *Session) TrackerView() (tracker.View, bool) {
	order := s.Order()
	if order == nil {
		return tracker.View{}, false
	}
	return tracker.Project(tracker.FromOrder(order)), true
}

// MarkJustPlaced dipanggil saat view detail dibuka langsung setelah
// checkout; banner sukses tampil selama beberapa detik.
func (s *Session) MarkJustPlaced() {
	s.mu.Lock()
	s.bannerUntil = time.Now().Add(justPlacedBanner)
	s.mu.Unlock()
}

// JustPlaced melaporkan apakah banner sukses masih harus tampil.
func (s *Session) JustPlaced() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Now().Before(s.bannerUntil)
}
