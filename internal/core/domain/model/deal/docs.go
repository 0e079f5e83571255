// Package deal contains the DeliveryDeal aggregate: the record tying exactly
// one order to one transporter assignment lifecycle, from payment escrow
// through the claim race, custody-transfer code verification and settlement.
//
// The aggregate enforces its invariants through validated methods on private
// state; racing writers are arbitrated by the conditional updates in the
// persistence adapter, not by locks here.
package deal
