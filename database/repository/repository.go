package repository

import (
	invoiceRepo "parkwise/database/repository/invoice"
	lotRepo "parkwise/database/repository/lot"
	rateRepo "parkwise/database/repository/rate"
	sessionRepo "parkwise/database/repository/session"
	userRepo "parkwise/database/repository/user"
	vehicleRepo "parkwise/database/repository/vehicle"
)

// Re-export the repository interfaces and constructors.
type LotRepository = lotRepo.LotRepository

var NewMongoLotRepo = lotRepo.NewMongoLotRepo

type RateRepository = rateRepo.RateRepository

var NewMongoRateRepo = rateRepo.NewMongoRateRepo

type SessionRepository = sessionRepo.SessionRepository

var NewMongoSessionRepo = sessionRepo.NewMongoSessionRepo

type VehicleRepository = vehicleRepo.VehicleRepository

var NewMongoVehicleRepo = vehicleRepo.NewMongoVehicleRepo

type InvoiceRepository = invoiceRepo.InvoiceRepository

var NewMongoInvoiceRepo = invoiceRepo.NewMongoInvoiceRepo

type UserRepository = userRepo.UserRepository

var NewMongoUserRepository = userRepo.NewMongoUserRepo
