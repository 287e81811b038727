package sector_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recruitbase/bizerror"
	"recruitbase/sector"
	"recruitbase/session"
	"recruitbase/testinfra"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

func TestCreateSectorAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	sector.RegisterSectorsRestAPI(router)
	defer func() { sector.CreateSectorFunc = sector.CreateSector }()

	t.Run("should be able to validate parameters", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, sector.PathSectors, strings.NewReader(`{"libelle":"Informatique"}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param",
			"message":"Key: 'SectorCreation.Slug' Error:Field validation for 'Slug' failed on the 'required' tag",
			"data":null}`))
	})

	t.Run("should be blocked for callers without manage permission", func(t *testing.T) {
		sector.CreateSectorFunc = func(c sector.SectorCreation, sec *session.Session) (*sector.Sector, error) {
			return nil, bizerror.ErrForbidden
		}
		reqBody := `{"libelle":"Informatique", "slug":"informatique"}`
		req := httptest.NewRequest(http.MethodPost, sector.PathSectors, strings.NewReader(reqBody))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusForbidden))
		Expect(body).To(MatchJSON(`{"code":"security.forbidden", "message":"access forbidden", "data":null}`))
	})

	t.Run("should be able to create sector successfully", func(t *testing.T) {
		sector.CreateSectorFunc = func(c sector.SectorCreation, sec *session.Session) (*sector.Sector, error) {
			return &sector.Sector{ID: 70, Libelle: c.Libelle, Slug: c.Slug, Description: c.Description}, nil
		}
		reqBody := `{"libelle":"Informatique", "slug":"informatique", "description":"IT"}`
		req := httptest.NewRequest(http.MethodPost, sector.PathSectors, strings.NewReader(reqBody))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(ContainSubstring(`"slug":"informatique"`))
	})
}

func TestDeleteSectorAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	sector.RegisterSectorsRestAPI(router)
	defer func() { sector.DeleteSectorFunc = sector.DeleteSector }()

	t.Run("should be able to delete sector successfully", func(t *testing.T) {
		var deleted types.ID
		sector.DeleteSectorFunc = func(id types.ID, sec *session.Session) error {
			deleted = id
			return nil
		}
		req := httptest.NewRequest(http.MethodDelete, sector.PathSectors+"/70", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusNoContent))
		Expect(body).To(BeEmpty())
		Expect(deleted).To(Equal(types.ID(70)))
	})
}
