// Package models defines the core domain types for sofra.
//
// The ordering core is built around two price views:
//
//   - MenuItem.Price is the live catalog price. Merchants change it at any
//     time, and the cart always prices from it.
//   - OrderItem carries priceAtPurchase, frozen once when the cart is
//     materialized into an order. Historical orders never re-read catalog
//     prices.
//
// Orders move through a linear status machine
// (pending → preparing → ready → delivered); SetStatus rejects anything
// that is not the single next step. GroupOrder extends Order with
// per-contributor bookkeeping so a shared bill can be split by who added
// what.
package models
