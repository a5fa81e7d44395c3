package ledger

import (
	"github.com/conscoin/blockchain/foundation/blockchain/database"
)

// AddTransaction validates the transaction against the chain and adds it to
// the back of the pending pool. Coinbase transactions are only created by
// the ledger when mining and are always rejected here.
func (l *Ledger) AddTransaction(tx database.Tx) error {
	switch tx := tx.(type) {
	case database.Coinbase:
		return newValidationError(ErrCoinbaseSubmission, "to %s", tx.To)

	case database.Transfer:
		l.mu.Lock()
		defer l.mu.Unlock()

		if err := l.validateTransfer(tx); err != nil {
			return err
		}

		n := l.mempool.Add(tx)
		l.evHandler("ledger: AddTransaction: tx[%s]: pending[%d]", tx, n)

		return nil

	default:
		return newValidationError(ErrUnknownTx, "%T", tx)
	}
}

// validateTransfer performs the checks required before a transfer can be
// pending. The sender must be able to cover the amount along with every
// transfer it already has pending or being mined. The caller must hold
// the lock.
func (l *Ledger) validateTransfer(tx database.Transfer) error {
	if err := l.checkTransfer(tx); err != nil {
		return err
	}

	balance := balanceOf(l.chain, tx.From)

	committed := l.mempool.PendingFrom(tx.From)
	for _, inf := range l.inflight {
		if inf.From == tx.From {
			committed += inf.Amount
		}
	}

	if balance < committed || balance-committed < tx.Amount {
		return newValidationError(ErrInsufficientFunds, "account %s, bal %d, pending %d, needed %d", tx.From, balance, committed, tx.Amount)
	}

	return nil
}

// checkTransfer validates the parts of a transfer that don't depend on
// balances. The same checks are applied when validating the chain.
func (l *Ledger) checkTransfer(tx database.Transfer) error {
	if !tx.From.IsAddress() {
		return newValidationError(ErrInvalidAddress, "from %q", tx.From)
	}

	if !tx.To.IsAddress() {
		return newValidationError(ErrInvalidAddress, "to %q", tx.To)
	}

	if tx.Amount == 0 {
		return newValidationError(ErrInvalidAmount, "from %s", tx.From)
	}

	if !tx.IsSigned() {
		if l.genesis.RequireSignatures {
			return newValidationError(ErrInvalidSignature, "transfer from %s is not signed", tx.From)
		}
		return nil
	}

	if err := tx.VerifySignature(); err != nil {
		return newValidationError(ErrInvalidSignature, "%s", err)
	}

	if l.genesis.RequireSignatures {
		signer, err := tx.SignerAddress()
		if err != nil {
			return newValidationError(ErrInvalidSignature, "%s", err)
		}

		if signer != tx.From {
			return newValidationError(ErrInvalidSignature, "signed by %s, not %s", signer, tx.From)
		}
	}

	return nil
}

// requeue validates the specified transfers against the current chain and
// puts the valid ones at the front of the pending pool, ahead of anything
// already pending. Transfers that are no longer valid are dropped. The
// caller must hold the lock.
func (l *Ledger) requeue(trans []database.Transfer) {
	pool := append(trans, l.mempool.Take(-1)...)

	for _, tx := range pool {
		if err := l.validateTransfer(tx); err != nil {
			l.evHandler("ledger: requeue: tx[%s]: DROPPED: %s", tx, err)
			continue
		}
		l.mempool.Add(tx)
	}
}
