package database

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/lizet96/hms-backend/logging"
	"github.com/lizet96/hms-backend/metrics"
)

// DefaultRetryDelay es la espera fija entre intentos de conexión
const DefaultRetryDelay = 5 * time.Second

// ConnectFunc intenta establecer la conexión una vez
type ConnectFunc func(ctx context.Context) error

// State es el estado de la conexión. Solo el supervisor lo modifica;
// el resto del proceso lo lee a través de los accesores.
type State struct {
	mu          sync.RWMutex
	connected   bool
	attemptedAt time.Time
	attempts    int
}

// NewState crea un estado desconectado
func NewState() *State {
	return &State{}
}

// Connected indica si algún intento terminó con éxito
func (s *State) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// AttemptedAt devuelve la hora del último intento (cero si no hubo ninguno)
func (s *State) AttemptedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.attemptedAt
}

// Attempts devuelve el número de intentos realizados
func (s *State) Attempts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.attempts
}

func (s *State) recordAttempt(at time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attemptedAt = at
	s.attempts++
	return s.attempts
}

func (s *State) markConnected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = true
}

// Supervisor reintenta la conexión con una espera fija hasta lograrla.
// No hay límite de intentos ni crecimiento de la espera, y todos los
// errores se tratan igual. Una vez conectado termina y no vuelve a
// comprobar la conexión.
type Supervisor struct {
	connect ConnectFunc
	state   *State
	delay   time.Duration
	clock   clockwork.Clock
	log     zerolog.Logger

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// SupervisorOption personaliza el supervisor
type SupervisorOption func(*Supervisor)

// WithRetryDelay cambia la espera entre intentos
func WithRetryDelay(d time.Duration) SupervisorOption {
	return func(s *Supervisor) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithClock inyecta el reloj usado para programar los reintentos
func WithClock(c clockwork.Clock) SupervisorOption {
	return func(s *Supervisor) { s.clock = c }
}

// WithLogger reemplaza el logger del supervisor
func WithLogger(l zerolog.Logger) SupervisorOption {
	return func(s *Supervisor) { s.log = l }
}

// NewSupervisor crea un supervisor sobre la operación de conexión y el estado dado
func NewSupervisor(connect ConnectFunc, state *State, opts ...SupervisorOption) *Supervisor {
	if state == nil {
		state = NewState()
	}
	s := &Supervisor{
		connect: connect,
		state:   state,
		delay:   DefaultRetryDelay,
		clock:   clockwork.NewRealClock(),
		log:     logging.With("db-supervisor"),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State devuelve el estado que administra el supervisor
func (s *Supervisor) State() *State {
	return s.state
}

// Start lanza el ciclo de conexión en su propia goroutine y regresa de
// inmediato. Llamadas posteriores no tienen efecto.
func (s *Supervisor) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	go s.run(ctx)
}

// Stop cancela el ciclo y cualquier reintento pendiente. No espera a que
// termine un intento en curso; para eso está Done.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Done se cierra cuando el ciclo termina, ya sea por conexión o por cancelación
func (s *Supervisor) Done() <-chan struct{} {
	return s.done
}

func (s *Supervisor) run(ctx context.Context) {
	defer close(s.done)

	for {
		if ctx.Err() != nil {
			return
		}

		attempt := s.state.recordAttempt(s.clock.Now())
		err := s.connect(ctx)
		if err == nil {
			s.state.markConnected()
			metrics.DBConnectAttempts.WithLabelValues("success").Inc()
			metrics.DBConnected.Set(1)
			s.log.Info().Int("attempt", attempt).Msg("base de datos conectada exitosamente")
			return
		}

		metrics.DBConnectAttempts.WithLabelValues("failure").Inc()
		s.log.Error().
			Err(err).
			Int("attempt", attempt).
			Dur("retry_in", s.delay).
			Msgf("falló la conexión a la base de datos, reintentando en %s", s.delay)

		select {
		case <-ctx.Done():
			s.log.Warn().Int("attempts", attempt).Msg("supervisor de conexión detenido")
			return
		case <-s.clock.After(s.delay):
		}
	}
}
