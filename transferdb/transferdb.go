// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package transferdb journals the transfer instructions the distributor
// emitted, in a sqlite database.
package transferdb

import (
	"context"
	"database/sql"

	"github.com/holiman/uint256"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/vechain/distributor/dist"
)

// TransferDB manages transfers
type TransferDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open transfer db at given path.
func New(path string) (transferDB *TransferDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if transferDB == nil {
			db.Close()
		}
	}()
	// a memory db lives as long as its single connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(transferTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &TransferDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create a transfer db in ram.
func NewMem() (*TransferDB, error) {
	return New(":memory:")
}

// Close close the transfer db.
func (db *TransferDB) Close() error {
	return db.db.Close()
}

// Path return db's path.
func (db *TransferDB) Path() string {
	return db.path
}

// DriverVersion returns the sqlite version.
func (db *TransferDB) DriverVersion() string {
	return db.driverVersion
}

// Insert journals transfers in a single sql transaction.
func (db *TransferDB) Insert(ctx context.Context, transfers []*Transfer) error {
	if len(transfers) == 0 {
		return nil
	}
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, t := range transfers {
		if _, err = tx.ExecContext(ctx, "INSERT INTO transfer(height, action, token, recipient, amount) VALUES (?, ?, ?, ?, ?);",
			t.Height,
			t.Action,
			t.Token.Bytes(),
			t.Recipient.Bytes(),
			t.Amount.Bytes(),
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Filter queries transfers matching the filter.
func (db *TransferDB) Filter(ctx context.Context, filter *Filter) ([]*Transfer, error) {
	const query = "SELECT seq, height, action, token, recipient, amount FROM transfer"
	if filter == nil {
		return db.query(ctx, query+" ORDER BY seq ASC")
	}
	var args []any
	stmt := query + " WHERE 1"
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND height >= ? "
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND height <= ? "
		}
	}
	if filter.Token != nil {
		args = append(args, filter.Token.Bytes())
		stmt += " AND token = ? "
	}
	if filter.Recipient != nil {
		args = append(args, filter.Recipient.Bytes())
		stmt += " AND recipient = ? "
	}
	if filter.Action != "" {
		args = append(args, filter.Action)
		stmt += " AND action = ? "
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC "
	} else {
		stmt += " ORDER BY seq ASC "
	}

	if filter.Options != nil {
		stmt += " limit ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.query(ctx, stmt, args...)
}

func (db *TransferDB) query(ctx context.Context, stmt string, args ...any) ([]*Transfer, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*Transfer
	for rows.Next() {
		var (
			seq       uint64
			height    uint64
			action    string
			token     []byte
			recipient []byte
			amount    []byte
		)
		if err := rows.Scan(
			&seq,
			&height,
			&action,
			&token,
			&recipient,
			&amount,
		); err != nil {
			return nil, err
		}
		transfers = append(transfers, &Transfer{
			Seq:       seq,
			Height:    height,
			Action:    action,
			Token:     dist.BytesToAddress(token),
			Recipient: dist.BytesToAddress(recipient),
			Amount:    new(uint256.Int).SetBytes(amount),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transfers, nil
}
