// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transferdb

const transferTableSchema = `
create table if not exists transfer (
	seq integer primary key autoincrement,
	height integer,
	action text,
	token blob(20),
	recipient blob(20),
	amount blob(32)
);

CREATE INDEX if not exists heightIndex on transfer(height);
CREATE INDEX if not exists recipientIndex on transfer(recipient);
CREATE INDEX if not exists tokenIndex on transfer(token);
`
