// Package staging manages the throwaway directory trees a package is
// assembled in: fresh creation, copying of build outputs and size accounting.
package staging
