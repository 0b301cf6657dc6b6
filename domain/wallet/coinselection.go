// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"math/rand"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/meridiannet/meridiand/infrastructure/logger"
	"github.com/meridiannet/meridiand/util"
)

// ErrInsufficientFunds is returned when the candidates passing the
// eligibility filters cannot cover the requested amount. It is a routine,
// recoverable outcome: the caller decides whether to widen the filters or
// abort the payment.
var ErrInsufficientFunds = errors.New("total value of the eligible candidates is lower than the target amount")

// Config carries the selector's tunables.
type Config struct {
	// Iterations bounds the stochastic subset search each selection
	// attempt may spend looking for an exact match.
	Iterations int

	// MinChange is the smallest change amount worth creating. The
	// selector overshoots past it rather than produce dust change.
	MinChange util.Amount

	// SpendUnconfirmedChange permits a final fallback to unconfirmed
	// outputs of the wallet's own transactions when nothing confirmed
	// covers the target.
	SpendUnconfirmedChange bool
}

// DefaultConfig returns the selection tuning used in production.
func DefaultConfig() *Config {
	return &Config{
		Iterations:             1000,
		MinChange:              util.MitePerMeridianCent,
		SpendUnconfirmedChange: true,
	}
}

// EligibilityFilter sets the confirmation depth a candidate needs before a
// selection attempt may use it, split by who created the containing
// transaction.
type EligibilityFilter struct {
	// ConfMine applies to outputs of the wallet's own transactions.
	ConfMine int64

	// ConfTheirs applies to outputs received from others.
	ConfTheirs int64
}

// Selector picks the subset of a wallet's spendable outputs used to fund a
// payment. It is stateless between calls apart from its source of
// randomness, which must not be shared with concurrent selections.
type Selector struct {
	config *Config
	random *rand.Rand
}

// NewSelector returns a Selector driven by the given tuning and randomness.
// A nil config selects DefaultConfig. A nil random source seeds a fresh one
// from the wall clock; tests inject a seeded source instead so failures
// reproduce.
func NewSelector(config *Config, random *rand.Rand) *Selector {
	if config == nil {
		config = DefaultConfig()
	}
	if random == nil {
		random = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{
		config: config,
		random: random,
	}
}

// SelectCoins picks candidates worth at least target, preferring
// well-confirmed outputs and widening the confirmation requirements only
// when the stricter attempts fail. Outpoints pinned through control are
// always spent; the remaining rules of control prune the candidate set
// before any attempt runs.
func (s *Selector) SelectCoins(target util.Amount, coins []*Coin,
	control *CoinControl) ([]*Coin, util.Amount, error) {

	onEnd := logger.LogAndMeasureExecutionTime(log, "SelectCoins")
	defer onEnd()

	candidates := make([]*Coin, 0, len(coins))
	for _, coin := range coins {
		if !coin.Safe {
			continue
		}
		if control != nil && control.IgnoreRemoteStaked && coin.RemoteStaked {
			continue
		}
		candidates = append(candidates, coin)
	}

	// A pinned set that forbids other inputs is spent as-is.
	if control != nil && control.HasSelected() && !control.AllowOtherInputs {
		selected := make([]*Coin, 0, len(candidates))
		total := util.Amount(0)
		for _, coin := range candidates {
			if !coin.Spendable || !control.IsSelected(coin.Outpoint) {
				continue
			}
			selected = append(selected, coin)
			total += coin.Value
		}
		if total < target {
			return nil, 0, errors.WithStack(ErrInsufficientFunds)
		}
		return selected, total, nil
	}

	// Pinned outpoints spend unconditionally, so the search below only
	// needs to cover the remainder.
	presets := []*Coin{}
	presetValue := util.Amount(0)
	rest := candidates
	if control != nil && control.HasSelected() {
		rest = make([]*Coin, 0, len(candidates))
		for _, coin := range candidates {
			if coin.Spendable && control.IsSelected(coin.Outpoint) {
				presets = append(presets, coin)
				presetValue += coin.Value
				continue
			}
			rest = append(rest, coin)
		}
		if presetValue >= target {
			return presets, presetValue, nil
		}
	}

	filters := []EligibilityFilter{
		{ConfMine: 1, ConfTheirs: 6},
		{ConfMine: 1, ConfTheirs: 1},
	}
	if s.config.SpendUnconfirmedChange {
		filters = append(filters, EligibilityFilter{ConfMine: 0, ConfTheirs: 1})
	}

	for _, filter := range filters {
		selected, total, err := s.SelectCoinsMinConf(
			target-presetValue, filter, rest)
		if err != nil {
			continue
		}
		return append(presets, selected...), presetValue + total, nil
	}
	return nil, 0, errors.WithStack(ErrInsufficientFunds)
}

// SelectCoinsMinConf picks candidates worth at least target from the coins
// passing filter. A candidate matching the target exactly wins outright.
// Otherwise the stochastic subset search competes against the smallest
// single candidate covering the target, and the result wasting less wins,
// with overshoots below the configured change floor counting against a
// subset. Ties go to the single candidate.
func (s *Selector) SelectCoinsMinConf(target util.Amount,
	filter EligibilityFilter, coins []*Coin) ([]*Coin, util.Amount, error) {

	shuffled := make([]*Coin, len(coins))
	copy(shuffled, coins)
	s.random.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	// Partition the eligible candidates into the ones below the target
	// plus change floor and the smallest one covering the target alone.
	var lowestLarger *Coin
	lower := make([]*Coin, 0, len(shuffled))
	totalLower := util.Amount(0)

	for _, coin := range shuffled {
		if !coin.Spendable {
			continue
		}
		required := filter.ConfTheirs
		if coin.FromMe {
			required = filter.ConfMine
		}
		if coin.Depth < required {
			continue
		}
		switch {
		case coin.Value == target:
			return []*Coin{coin}, coin.Value, nil
		case coin.Value < target+s.config.MinChange:
			lower = append(lower, coin)
			totalLower += coin.Value
		case lowestLarger == nil || coin.Value < lowestLarger.Value:
			lowestLarger = coin
		}
	}

	if totalLower == target {
		return lower, totalLower, nil
	}

	if totalLower < target {
		if lowestLarger == nil {
			return nil, 0, errors.WithStack(ErrInsufficientFunds)
		}
		return []*Coin{lowestLarger}, lowestLarger.Value, nil
	}

	sort.Slice(lower, func(i, j int) bool {
		return lower[i].Value > lower[j].Value
	})
	best, bestTotal := s.approximateBestSubset(lower, totalLower, target)
	if bestTotal != target && totalLower >= target+s.config.MinChange {
		best, bestTotal = s.approximateBestSubset(
			lower, totalLower, target+s.config.MinChange)
	}

	// Hand back the single larger candidate when the subset search could
	// not clear the change floor or when the candidate wastes no more
	// than the subset does.
	if lowestLarger != nil &&
		((bestTotal != target && bestTotal < target+s.config.MinChange) ||
			lowestLarger.Value <= bestTotal) {
		return []*Coin{lowestLarger}, lowestLarger.Value, nil
	}

	selected := make([]*Coin, 0, len(lower))
	total := util.Amount(0)
	for i, coin := range lower {
		if best[i] {
			selected = append(selected, coin)
			total += coin.Value
		}
	}
	log.Debugf("Selected %d candidates totalling %s towards %s",
		len(selected), total, target)
	return selected, total, nil
}

// approximateBestSubset runs a bounded stochastic search for the subset of
// coins, sorted descending by value, that reaches target with the least
// excess. Each iteration makes a random inclusion pass and then a
// deterministic pass over whatever the first pass skipped, unwinding any
// inclusion that overshoots so smaller candidates later in the order can
// close the gap exactly.
func (s *Selector) approximateBestSubset(coins []*Coin, totalLower,
	target util.Amount) ([]bool, util.Amount) {

	included := make([]bool, len(coins))
	best := make([]bool, len(coins))
	for i := range best {
		best[i] = true
	}
	bestTotal := totalLower

	for iteration := 0; iteration < s.config.Iterations &&
		bestTotal != target; iteration++ {

		for i := range included {
			included[i] = false
		}
		total := util.Amount(0)
		reachedTarget := false
		for pass := 0; pass < 2 && !reachedTarget; pass++ {
			for i := range coins {
				// The inclusion randomness carries no security
				// weight.
				var include bool
				if pass == 0 {
					include = s.random.Intn(2) == 1
				} else {
					include = !included[i]
				}
				if !include {
					continue
				}
				total += coins[i].Value
				included[i] = true
				if total < target {
					continue
				}
				reachedTarget = true
				if total < bestTotal {
					bestTotal = total
					copy(best, included)
				}
				total -= coins[i].Value
				included[i] = false
			}
		}
	}
	return best, bestTotal
}
