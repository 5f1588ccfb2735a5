package calculator

import "EtfRadar/internal/model"

// RSIPeriod is the classic 14-day lookback used throughout the system.
const RSIPeriod = 14

// RSI computes the Wilder-smoothed relative strength index over the given
// period from an ordered close series. Fewer than period+1 closes yields
// an unavailable result, not zero and not an error. A run with zero final
// average loss saturates to exactly 100. The returned value is unrounded;
// rounding is the caller's responsibility.
func RSI(closes []float64, period int) model.Float {
	if period <= 0 || len(closes) < period+1 {
		return model.Float{}
	}

	// Seed averages from the simple mean of the first `period` deltas.
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss -= delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	// Wilder smoothing for the remaining deltas.
	for i := period + 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return model.SomeFloat(100)
	}
	rs := avgGain / avgLoss
	return model.SomeFloat(100 - 100/(1+rs))
}
