// Package allen classifies the temporal relation between pairs of bursts
// with Allen's interval algebra and turns the detected relations into a
// burst-by-burst weight matrix.
//
// Boundaries are compared against a tolerance proportional to the lengths
// of both bursts, tol = alpha·(len(x)+len(y)), so bursts whose edges are
// almost aligned are still classified as equals, starts, meets and so on.
// With a nonzero tolerance several relations can hold for the same ordered
// pair; every one of them is recorded, and the matrix keeps the highest
// weight.
package allen
