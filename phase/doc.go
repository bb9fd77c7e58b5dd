// Package phase estimates a phase for spectrograms that only store magnitude.
//
// It implements the Griffin-Lim iteration: starting from a seeded random
// phase, each iteration synthesizes the estimate and analyses it again, then
// restores the target magnitude while keeping the phase of that analysis. Quality
// grows with the iteration count up to diminishing returns; there is no
// convergence guarantee, and transient-rich material keeps an audible
// "phasiness" no matter how many iterations run. Each iteration costs one full
// synthesis and one full analysis of the whole buffer.
package phase
