package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Postgres fills ids via gen_random_uuid(); these hooks cover drivers
// without that default (sqlite in tests).

func (t *Tenant) BeforeCreate(*gorm.DB) error          { ensureID(&t.ID); return nil }
func (a *Airport) BeforeCreate(*gorm.DB) error         { ensureID(&a.ID); return nil }
func (l *ParkingLot) BeforeCreate(*gorm.DB) error      { ensureID(&l.ID); return nil }
func (d *Driver) BeforeCreate(*gorm.DB) error          { ensureID(&d.ID); return nil }
func (b *Booking) BeforeCreate(*gorm.DB) error         { ensureID(&b.ID); return nil }
func (v *Vehicle) BeforeCreate(*gorm.DB) error         { ensureID(&v.ID); return nil }
func (p *CheckinProtocol) BeforeCreate(*gorm.DB) error { ensureID(&p.ID); return nil }
func (i *Invoice) BeforeCreate(*gorm.DB) error         { ensureID(&i.ID); return nil }
func (d *DailyCash) BeforeCreate(*gorm.DB) error       { ensureID(&d.ID); return nil }
func (p *Payment) BeforeCreate(*gorm.DB) error         { ensureID(&p.ID); return nil }
func (e *Event) BeforeCreate(*gorm.DB) error           { ensureID(&e.ID); return nil }

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
