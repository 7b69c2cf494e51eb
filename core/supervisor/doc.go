// Package supervisor runs a pool of core/worker.Worker instances for one
// service, sizing the pool between a configured minimum and maximum and
// replacing any worker whose Run returns (its request budget was
// exhausted, or it hit an unrecoverable bus error).
package supervisor
