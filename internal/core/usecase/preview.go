package usecase

import (
	"sync"

	"github.com/Nzyazin/ledgerconsole/internal/core/clock"
	"github.com/Nzyazin/ledgerconsole/internal/core/logger"
	"github.com/Nzyazin/ledgerconsole/internal/core/models"
	"github.com/shopspring/decimal"
)

// previewLoop owns the pending FX quote. Every arming or cancel bumps armed,
// and a callback for an older arming does nothing. seq numbers issued quotes;
// only the response for the latest one is applied.
type previewLoop struct {
	mu    sync.Mutex
	timer clock.Timer
	armed uint64
	seq   uint64
}

func (p *previewLoop) invalidate() uint64 {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.armed++
	return p.armed
}

func (d *WalletDetail) cancelPreview() {
	d.preview.mu.Lock()
	d.preview.invalidate()
	d.preview.mu.Unlock()
}

// schedulePreview re-arms the debounce timer. Inputs are checked now to
// decide whether to arm, and read again when the timer fires.
func (d *WalletDetail) schedulePreview() {
	p := &d.preview
	p.mu.Lock()
	defer p.mu.Unlock()

	gen := p.invalidate()

	if _, _, _, ok := previewInputs(d.state.Get()); !ok {
		d.clearPreview()
		return
	}

	d.state.Update(func(s DetailState) DetailState {
		s.PreviewLoading = true
		return s
	})
	p.timer = d.clock.AfterFunc(d.cfg.PreviewDebounce, func() { d.firePreview(gen) })
}

func (d *WalletDetail) firePreview(gen uint64) {
	p := &d.preview
	p.mu.Lock()
	if gen != p.armed {
		p.mu.Unlock()
		return
	}
	p.timer = nil

	from, to, amount, ok := previewInputs(d.state.Get())
	if !ok {
		d.clearPreview()
		p.mu.Unlock()
		return
	}
	p.seq++
	seq := p.seq
	ctx := d.background()
	defer p.mu.Unlock()

	// Started under p.mu so Close never waits past an unstarted quote.
	d.spawn(nil, func() {
		quote, err := d.ledger.FxRate(ctx, from, to, amount)

		p.mu.Lock()
		defer p.mu.Unlock()
		if seq != p.seq || gen != p.armed {
			d.log.Debug("Discarding stale fx quote",
				logger.Int64Field("seq", int64(seq)),
				logger.Int64Field("latest", int64(p.seq)))
			return
		}

		d.state.Update(func(s DetailState) DetailState {
			s.PreviewLoading = false
			if err != nil {
				s.Preview = nil
				return s
			}
			s.Preview = &models.FxPreview{
				Rate:           quote.Rate,
				TargetAmount:   quote.TargetAmount,
				TargetCurrency: quote.ToCurrency,
			}
			return s
		})
	})
}

func (d *WalletDetail) clearPreview() {
	d.state.Update(func(s DetailState) DetailState {
		s.Preview = nil
		s.PreviewLoading = false
		return s
	})
}

func previewInputs(s DetailState) (from, to models.Currency, amount decimal.Decimal, ok bool) {
	if s.Wallet == nil || !s.Form.Amount.IsPositive() {
		return "", "", decimal.Zero, false
	}
	target, found := s.fxTarget(s.Form.TargetWalletID)
	if !found {
		return "", "", decimal.Zero, false
	}
	return s.Wallet.BaseCurrency, target.BaseCurrency, s.Form.Amount, true
}
