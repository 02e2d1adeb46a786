package strategy

import "github.com/holiman/uint256"

// SimulateXYArb models a constant-product (x*y=k) two-leg arbitrage: buy A
// with B on pool 1, sell A for B on pool 2. Returns the B-denominated
// profit, or 0 if the trade is unprofitable, would drain a pool, or any
// intermediate amount underflows to zero.
func SimulateXYArb(reserveA1, reserveB1, reserveA2, reserveB2, feeBps1, feeBps2, amountBIn uint64) uint64 {
	fee1 := amountBIn * feeBps1 / 10_000
	bAfterFee := saturatingSubU64(amountBIn, fee1)
	if bAfterFee == 0 || reserveA1 == 0 || reserveB1 == 0 {
		return 0
	}

	aOut := new(uint256.Int).Mul(uint256.NewInt(reserveA1), uint256.NewInt(bAfterFee))
	denomA := new(uint256.Int).Add(uint256.NewInt(reserveB1), uint256.NewInt(bAfterFee))
	aOut.Div(aOut, denomA)

	if aOut.IsZero() || aOut.Cmp(uint256.NewInt(reserveA1)) >= 0 {
		return 0
	}
	aOutU64 := aOut.Uint64()

	fee2 := aOutU64 * feeBps2 / 10_000
	aAfterFee := saturatingSubU64(aOutU64, fee2)
	if aAfterFee == 0 || reserveA2 == 0 || reserveB2 == 0 {
		return 0
	}

	bOut := new(uint256.Int).Mul(uint256.NewInt(reserveB2), uint256.NewInt(aAfterFee))
	denomB := new(uint256.Int).Add(uint256.NewInt(reserveA2), uint256.NewInt(aAfterFee))
	bOut.Div(bOut, denomB)

	if bOut.IsZero() {
		return 0
	}

	return saturatingSubU64(bOut.Uint64(), amountBIn)
}

// SimulateCLMMArb models a single-tick concentrated-liquidity two-leg
// arbitrage using the Q64.64 sqrt-price invariant. Pool 1 is the a2b
// (flash/buy) leg, pool 2 is the b2a (sell) leg. Returns 0 on overflow,
// insufficient liquidity, single-tick capacity exhaustion, or
// unprofitability — never panics.
func SimulateCLMMArb(sqrtPrice1, liquidity1, sqrtPrice2, liquidity2 *uint256.Int, feeBps1, feeBps2, amountIn uint64) uint64 {
	if liquidity1 == nil || liquidity2 == nil || sqrtPrice1 == nil || sqrtPrice2 == nil {
		return 0
	}
	if liquidity1.IsZero() || liquidity2.IsZero() || sqrtPrice1.IsZero() || sqrtPrice2.IsZero() {
		return 0
	}

	fee1 := amountIn * feeBps1 / 10_000
	afterFee1 := saturatingSubU64(amountIn, fee1)
	if afterFee1 == 0 {
		return 0
	}

	// delta_sqrt_1 = (after_fee_1 << 64) / liquidity_1
	afterFee1Shifted := new(uint256.Int).Lsh(uint256.NewInt(afterFee1), 64)
	deltaSqrt1 := new(uint256.Int).Div(afterFee1Shifted, liquidity1)

	if deltaSqrt1.Cmp(sqrtPrice1) >= 0 {
		return 0 // exhausted all liquidity at this tick
	}
	newSqrt1 := new(uint256.Int).Sub(sqrtPrice1, deltaSqrt1)
	if newSqrt1.IsZero() {
		return 0
	}

	// amount_b_mid = L1 * (sqrt_price_1 - new_sqrt_1) >> 64, overflow -> 0
	spread1 := new(uint256.Int).Sub(sqrtPrice1, newSqrt1)
	amountBMid, overflow := new(uint256.Int).MulOverflow(liquidity1, spread1)
	if overflow {
		return 0
	}
	amountBMid.Rsh(amountBMid, 64)
	if amountBMid.IsZero() {
		return 0
	}

	feeBps2Big := uint256.NewInt(feeBps2)
	fee2 := new(uint256.Int).Mul(amountBMid, feeBps2Big)
	fee2.Div(fee2, uint256.NewInt(10_000))
	afterFee2 := new(uint256.Int)
	if fee2.Cmp(amountBMid) >= 0 {
		afterFee2.Clear()
	} else {
		afterFee2.Sub(amountBMid, fee2)
	}
	if afterFee2.IsZero() {
		return 0
	}

	// b_times_sqrt = (after_fee_2 * (sqrt_price_2 >> 32)) >> 32, overflow -> MAX
	sqrtPrice2Hi := new(uint256.Int).Rsh(sqrtPrice2, 32)
	bTimesSqrt, overflow := new(uint256.Int).MulOverflow(afterFee2, sqrtPrice2Hi)
	if overflow {
		bTimesSqrt = new(uint256.Int).SetAllOne()
	} else {
		bTimesSqrt.Rsh(bTimesSqrt, 32)
	}

	if bTimesSqrt.Cmp(liquidity2) >= 0 {
		return 0 // exceeds single-tick capacity
	}
	denom := new(uint256.Int).Sub(liquidity2, bTimesSqrt)
	if denom.IsZero() {
		return 0
	}

	// new_sqrt_2 = ((L2 * (sqrt_price_2 >> 32)) / denom) << 32
	num, overflow := new(uint256.Int).MulOverflow(liquidity2, sqrtPrice2Hi)
	if overflow {
		return 0
	}
	newSqrt2 := new(uint256.Int).Div(num, denom)
	newSqrt2.Lsh(newSqrt2, 32)

	if newSqrt2.Cmp(sqrtPrice2) <= 0 {
		return 0 // price must increase for b2a
	}

	deltaSqrt2 := new(uint256.Int).Sub(newSqrt2, sqrtPrice2)
	amountAOut, overflow := new(uint256.Int).MulOverflow(liquidity2, deltaSqrt2)
	if overflow {
		return 0
	}
	amountAOut.Rsh(amountAOut, 64)

	amountInBig := uint256.NewInt(amountIn)
	if amountAOut.Cmp(amountInBig) <= 0 {
		return 0
	}
	amountAOut.Sub(amountAOut, amountInBig)
	if !amountAOut.IsUint64() {
		return 0
	}
	return amountAOut.Uint64()
}

func saturatingSubU64(a, b uint64) uint64 {
	if a <= b {
		return 0
	}
	return a - b
}
