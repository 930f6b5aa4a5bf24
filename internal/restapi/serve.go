// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package restapi exposes the detector/descriptor pipeline over HTTP,
// adapted from the teacher's gin-based job-submission API.
package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ykwang/kaze/internal/kaze"
)

// Serve starts the gin HTTP server on 0.0.0.0:8080 with the detect and
// describe endpoints registered under /api/v1.
func Serve() {
	r := gin.Default()
	api := r.Group("/api")
	{
		v1 := api.Group("/v1")
		{
			v1.GET("/ping", getPing)
			v1.POST("/detect", postDetect)
			v1.POST("/describe", postDescribe)
		}
	}
	r.Run() // listen and serve on 0.0.0.0:8080
}

func getPing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

type detectArgs struct {
	Width         int       `json:"width" binding:"required"`
	Height        int       `json:"height" binding:"required"`
	Pixels        []float32 `json:"pixels" binding:"required"`
	Options       *kaze.Options `json:"options"`
}

type detectResponse struct {
	Keypoints []kaze.Keypoint `json:"keypoints"`
}

func postDetect(c *gin.Context) {
	var args detectArgs
	if err := c.ShouldBindJSON(&args); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opt := resolveOptions(args.Options, args.Width, args.Height)
	k, err := kaze.New(opt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := k.BuildScaleSpace(args.Pixels); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	kpts, err := k.Detect()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, detectResponse{Keypoints: kpts})
}

type describeArgs struct {
	Width         int             `json:"width" binding:"required"`
	Height        int             `json:"height" binding:"required"`
	Pixels        []float32       `json:"pixels" binding:"required"`
	Keypoints     []kaze.Keypoint `json:"keypoints" binding:"required"`
	Options       *kaze.Options   `json:"options"`
}

type describeResponse struct {
	Descriptors []float32 `json:"descriptors"`
	Dim         int       `json:"dim"`
}

func postDescribe(c *gin.Context) {
	var args describeArgs
	if err := c.ShouldBindJSON(&args); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opt := resolveOptions(args.Options, args.Width, args.Height)
	k, err := kaze.New(opt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := k.BuildScaleSpace(args.Pixels); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	desc, dim, err := k.Describe(args.Keypoints)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, describeResponse{Descriptors: desc, Dim: dim})
}

func resolveOptions(o *kaze.Options, w, h int) kaze.Options {
	var opt kaze.Options
	if o != nil {
		opt = *o
	} else {
		opt = kaze.DefaultOptions(w, h)
	}
	opt.Width, opt.Height = w, h
	return opt
}
