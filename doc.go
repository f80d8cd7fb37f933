// Package cryptotax computes the taxable events of a crypto asset history.
//
// It converts a stream of normalized transactions into matched lot
// consumptions, realized gain and loss records and income records. The
// calculation is deterministic: the same transactions under the same
// configuration always produce the same Ledger, byte for byte.
//
// The main parts are:
//   - Money and Quantity: exact decimal amounts, never rounded by the calculation.
//   - Inventory: the lots of every asset, with their remaining quantity and cost.
//   - Plan: the FIFO, LIFO, HIFO and Specific-ID lot selection policies, as
//     pure functions of the available lots.
//   - Classify: the tax category of every transaction type.
//   - Run: replays transactions into a Ledger of disposals, income events,
//     totals and warnings.
//   - Compare: replays the same transactions under several methods at once.
//
// Reading transactions, prices and lot designations from JSONL files is also
// provided, for the `ctax` command-line tool.
package cryptotax
