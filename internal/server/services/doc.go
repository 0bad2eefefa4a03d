// Package services contains the business operations of the colorcheck
// server: authentication, color check records and user management. Every
// operation takes the resolved caller explicitly and consults package
// policy before touching a repository.
package services
