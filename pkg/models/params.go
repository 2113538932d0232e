package models

// IDParam binds the :id path segment of single-resource routes.
type IDParam struct {
	ID string `uri:"id" binding:"required,uuid"`
}
